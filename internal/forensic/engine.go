package forensic

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// AnalysisRequest is one independent analysis: raw image bytes plus the
// caller-declared flags. The original filename is used only for
// provenance-token recovery.
type AnalysisRequest struct {
	Data            []byte
	Filename        string
	SecureCapture   bool
	ClaimedLocation string
}

// Engine runs forensic analyses. It holds no shared mutable state across
// requests; concurrent analyses of different images are safe.
type Engine struct {
	policy     ScoringPolicy
	scratchDir string
}

// NewEngine creates an engine using the canonical scoring policy. scratchDir
// is where per-invocation recompression scratch files are created; empty means
// the system temp directory.
func NewEngine(scratchDir string) *Engine {
	return &Engine{
		policy:     DefaultPolicy(),
		scratchDir: scratchDir,
	}
}

// Policy returns the scoring policy in effect.
func (e *Engine) Policy() ScoringPolicy {
	return e.policy
}

// Analyze computes one ForensicResult. Apart from GeneratedAt the result is a
// deterministic function of the bytes and flags. Failures that prevent a
// required numeric score abort the whole analysis; no partial result is
// returned.
func (e *Engine) Analyze(ctx context.Context, req AnalysisRequest) (*ForensicResult, error) {
	start := time.Now()

	hash, err := HashReader(bytes.NewReader(req.Data))
	if err != nil {
		return nil, err
	}
	asset, err := DecodeAsset(req.Data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Metadata parse failures are recovered: every field marked non-present.
	record := ExtractMetadata(req.Data)

	tamper, err := DetectTampering(asset, e.policy, e.scratchDir)
	if err != nil {
		// Tamper probability drives classification; without it there is no
		// report.
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	custody := EvaluateChainOfCustody(req.Filename, req.SecureCapture)
	ai := ScoreAIHeuristic(asset, record, e.policy)
	geo := ScoreGeoTimeConfidence(record, req.ClaimedLocation, custody.Intact(), e.policy)

	scores := ComponentScores{
		MetadataIntegrity: ScoreMetadataIntegrity(record, e.policy),
		TamperProbability: tamper.Probability,
		AIHeuristic:       ai.Score,
		GeoTimeConfidence: geo.Score,
	}

	overall := AggregateAuthenticity(scores, custody.Intact(), e.policy)
	label := ClassifyRisk(overall, e.policy)
	explanations := GenerateExplanations(record, tamper, ai, geo, custody, e.policy)

	result := &ForensicResult{
		SchemaVersion: SchemaVersion,
		PolicyVersion: PolicyVersion,
		GeneratedAt:   time.Now().UTC(),
		ContentHash:   hash,
		Asset: AssetOverview{
			Format:     asset.Format,
			Width:      asset.Width,
			Height:     asset.Height,
			ColorSpace: asset.ColorSpace,
			ByteSize:   asset.ByteSize,
		},
		Metadata:       record,
		Scores:         scores,
		Tamper:         tamper,
		AI:             ai,
		GeoTime:        geo,
		Custody:        custody,
		OverallScore:   overall,
		RiskLabel:      label,
		Explanations:   explanations,
		Capabilities:   EngineCapabilities(),
		Recommendation: recommendationFor(overall, e.policy),
	}

	slog.Info("analysis complete",
		"content_hash", hash,
		"overall_score", overall,
		"risk_label", string(label),
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// AnalyzeFile reads the image at path and analyzes it. The file's base name is
// used for provenance-token recovery unless req already names the original.
func (e *Engine) AnalyzeFile(ctx context.Context, path string, secureCapture bool, claimedLocation string) (*ForensicResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	return e.Analyze(ctx, AnalysisRequest{
		Data:            data,
		Filename:        filepath.Base(path),
		SecureCapture:   secureCapture,
		ClaimedLocation: claimedLocation,
	})
}

func recommendationFor(overall int, policy ScoringPolicy) string {
	if overall < policy.PartiallyAuthenticMin {
		return "Request the original image file directly from the device, cross-check with additional photos or videos, validate the claim timeline with supporting evidence and flag the claim for enhanced fraud review."
	}
	return "Proceed with standard claim verification; retain the original file for audit."
}
