package forensic

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"
)

func TestAnalyzeEndToEndScenario(t *testing.T) {
	// 1024x1024, no embedded metadata, secure capture off.
	engine := NewEngine(t.TempDir())
	data := encodePNG(t, makeTestImage(1024, 1024))

	result, err := engine.Analyze(context.Background(), AnalysisRequest{
		Data:     data,
		Filename: "claim_photo.png",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Scores.MetadataIntegrity > 50 {
		t.Errorf("Expected metadata integrity <= 50, got %d", result.Scores.MetadataIntegrity)
	}
	squareFlag := false
	for _, flag := range result.AI.Flags {
		if flag == "resolution matches known generative-model output size" {
			squareFlag = true
		}
	}
	if !squareFlag {
		t.Error("Expected AI score increase from the square-resolution rule")
	}
	if result.Custody.State != CustodyNotVerifiable {
		t.Errorf("Expected Not-Verifiable custody, got %s", result.Custody.State)
	}
	if result.RiskLabel != RiskSuspicious && result.RiskLabel != RiskHighFraud {
		t.Errorf("Expected Suspicious or High Fraud Risk, got %q", result.RiskLabel)
	}
	if len(result.Explanations) == 0 {
		t.Error("Expected non-empty explanation list")
	}
	if result.SchemaVersion != SchemaVersion || result.PolicyVersion != PolicyVersion {
		t.Errorf("Expected versioned result, got schema %q policy %q",
			result.SchemaVersion, result.PolicyVersion)
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	engine := NewEngine(t.TempDir())
	data := encodeJPEG(t, makeTestImage(96, 96), 85)
	req := AnalysisRequest{Data: data, Filename: "claim.jpg", SecureCapture: true, ClaimedLocation: "Berlin"}

	first, err := engine.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := engine.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Identical bytes and flags yield identical fields except the timestamp.
	first.GeneratedAt = time.Time{}
	second.GeneratedAt = time.Time{}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("Expected identical results, got\n%s\nand\n%s", a, b)
	}
}

func TestAnalyzeSecureCaptureEffect(t *testing.T) {
	engine := NewEngine(t.TempDir())
	data := encodeJPEG(t, makeTestImage(128, 128), 85)

	insecure, err := engine.Analyze(context.Background(), AnalysisRequest{Data: data, Filename: "a.jpg"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	secure, err := engine.Analyze(context.Background(), AnalysisRequest{Data: data, Filename: "a.jpg", SecureCapture: true})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if secure.OverallScore < insecure.OverallScore {
		t.Errorf("Expected secure capture to not lower the score, got %d < %d",
			secure.OverallScore, insecure.OverallScore)
	}
	if secure.Custody.State == insecure.Custody.State {
		t.Errorf("Expected custody status to differ, both %s", secure.Custody.State)
	}
}

func TestAnalyzeComponentBounds(t *testing.T) {
	engine := NewEngine(t.TempDir())
	policy := engine.Policy()
	data := encodeJPEG(t, makeTestImage(64, 48), 70)

	result, err := engine.Analyze(context.Background(), AnalysisRequest{Data: data, Filename: "b.jpg"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Scores.MetadataIntegrity < 0 || result.Scores.MetadataIntegrity > 100 {
		t.Errorf("Metadata integrity out of bounds: %d", result.Scores.MetadataIntegrity)
	}
	if result.Scores.TamperProbability < policy.TamperFloor || result.Scores.TamperProbability > policy.TamperCeiling {
		t.Errorf("Tamper probability out of bounds: %d", result.Scores.TamperProbability)
	}
	if result.Scores.AIHeuristic < 0 || result.Scores.AIHeuristic > 100 {
		t.Errorf("AI heuristic out of bounds: %d", result.Scores.AIHeuristic)
	}
	if result.Scores.GeoTimeConfidence < 0 || result.Scores.GeoTimeConfidence > 100 {
		t.Errorf("Geo/time confidence out of bounds: %d", result.Scores.GeoTimeConfidence)
	}
	if result.OverallScore < policy.OverallFloor || result.OverallScore > 100 {
		t.Errorf("Overall score out of bounds: %d", result.OverallScore)
	}
}

func TestAnalyzeUnreadableImageAborts(t *testing.T) {
	engine := NewEngine(t.TempDir())
	result, err := engine.Analyze(context.Background(), AnalysisRequest{
		Data:     []byte("definitely not an image"),
		Filename: "c.jpg",
	})
	if !errors.Is(err, ErrUnreadableImage) {
		t.Errorf("Expected ErrUnreadableImage, got %v", err)
	}
	if result != nil {
		t.Error("Expected no partial result for an unreadable image")
	}
}

func TestAnalyzeLeavesNoScratchFiles(t *testing.T) {
	scratch := t.TempDir()
	engine := NewEngine(scratch)
	data := encodePNG(t, makeTestImage(32, 32))

	if _, err := engine.Analyze(context.Background(), AnalysisRequest{Data: data, Filename: "d.png"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	entries, err := os.ReadDir(scratch)
	if err != nil {
		t.Fatalf("Failed to read scratch dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty scratch dir, found %d entries", len(entries))
	}
}

func TestAnalyzeFile(t *testing.T) {
	engine := NewEngine(t.TempDir())
	dir := t.TempDir()
	path := dir + "/f47ac10b-58cc-4372-a567-0e02b2c3d479_photo.png"
	if err := os.WriteFile(path, encodePNG(t, makeTestImage(32, 32)), 0o600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	result, err := engine.AnalyzeFile(context.Background(), path, false, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Custody.Evidence != EvidenceProvenanceToken {
		t.Errorf("Expected provenance token recovered from filename, got %s", result.Custody.Evidence)
	}
}
