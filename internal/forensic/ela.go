package forensic

import (
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"math"
	"os"

	"gonum.org/v1/gonum/stat"
)

// TamperSignal is the output of the error level analysis: recompression
// difference statistics plus independent global indicators, combined into a
// bounded tamper probability. The probability is a heuristic and therefore
// never reaches 0 or 100.
type TamperSignal struct {
	MeanDiff       float64  `json:"mean_diff"`
	P95Diff        float64  `json:"p95_diff"`
	ExceedFraction float64  `json:"exceed_fraction"`
	Probability    int      `json:"probability"`
	Indicators     []string `json:"indicators"`
}

// luminanceLevels is the shared x-axis for the 256-bin histograms.
var luminanceLevels = func() []float64 {
	levels := make([]float64, 256)
	for i := range levels {
		levels[i] = float64(i)
	}
	return levels
}()

// DetectTampering re-encodes the pixel buffer at a fixed lossy quality into a
// per-invocation scratch file, diffs the decoded copy against the original and
// derives the tamper probability. The scratch file never outlives the call,
// regardless of success or failure.
func DetectTampering(asset *ImageAsset, policy ScoringPolicy, scratchDir string) (*TamperSignal, error) {
	original := asset.Pixels()

	recompressed, err := recompress(original, policy.RecompressionQuality, scratchDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTamperUnavailable, err)
	}

	lumHist := luminanceHistogram(original)
	diffHist := differenceHistogram(original, recompressed)

	total := histogramTotal(diffHist)
	if total == 0 {
		return nil, fmt.Errorf("%w: empty pixel buffer", ErrTamperUnavailable)
	}

	meanDiff := stat.Mean(luminanceLevels, diffHist)
	p95 := stat.Quantile(0.95, stat.Empirical, luminanceLevels, diffHist)
	exceed := fractionAbove(diffHist, policy.DiffPixelThreshold, total)

	entropy := histogramEntropyBits(lumHist, total)
	contrast := stat.StdDev(luminanceLevels, lumHist)
	clipped := clippedFraction(lumHist, total)

	// Local score: monotonically increasing in the raw difference magnitude.
	localScore := meanDiff*policy.MeanDiffGain + exceed*policy.ExceedFractionGain
	if localScore > 100 {
		localScore = 100
	}

	// A vanishing recompression response means the pixels already went
	// through lossy compression at or below the analysis quality. Suspicion
	// rises as the response fades, so an added compression pass cannot lower
	// the resulting probability.
	smoothScore := (1 - meanDiff/policy.OversmoothDiffCeiling) * 100
	if smoothScore < 0 {
		smoothScore = 0
	}

	globalScore := 0
	var indicators []string
	if meanDiff*policy.MeanDiffGain >= 50 {
		indicators = append(indicators, "high mean recompression difference")
	}
	if p95 >= policy.DiffPixelThreshold*2 {
		indicators = append(indicators, "localized recompression inconsistency")
	}
	if smoothScore > localScore {
		indicators = append(indicators, "recompression response suppressed by prior compression")
	}
	if entropy < policy.LowEntropyBits {
		indicators = append(indicators, "low histogram entropy")
		globalScore += policy.IncrementLowEntropy
	}
	if clipped > policy.ClippedFractionLimit {
		indicators = append(indicators, "clipped highlights or shadows")
		globalScore += policy.IncrementClipping
	}
	if contrast < policy.LowContrastStdDev {
		indicators = append(indicators, "low global contrast")
		globalScore += policy.IncrementLowContrast
	}
	if globalScore > 100 {
		globalScore = 100
	}

	probability := combineTamperScores(localScore, float64(globalScore), smoothScore, policy)

	slog.Debug("tamper detection complete",
		"mean_diff", meanDiff,
		"p95_diff", p95,
		"exceed_fraction", exceed,
		"entropy_bits", entropy,
		"contrast", contrast,
		"clipped_fraction", clipped,
		"probability", probability)

	return &TamperSignal{
		MeanDiff:       meanDiff,
		P95Diff:        p95,
		ExceedFraction: exceed,
		Probability:    probability,
		Indicators:     indicators,
	}, nil
}

// combineTamperScores applies the fixed weighted split between the local
// recompression-diff score, the global indicator score and the baseline
// penalty. The prior-compression score can only raise the blend, never lower
// it, keeping the probability non-decreasing under recompression. Bounded
// into [floor, ceiling].
func combineTamperScores(local, global, smooth float64, policy ScoringPolicy) int {
	combined := policy.TamperLocalWeight*local +
		policy.TamperGlobalWeight*global +
		policy.TamperBaselineWeight*policy.TamperBaselineScore
	if smooth > combined {
		combined = smooth
	}
	return clampScore(int(math.Round(combined)), policy.TamperFloor, policy.TamperCeiling)
}

// recompress encodes img as JPEG at the given quality into a scratch file
// unique to this invocation and decodes it back. The scratch file is removed
// on every exit path.
func recompress(img image.Image, quality int, scratchDir string) (image.Image, error) {
	tmp, err := os.CreateTemp(scratchDir, "ela-*.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch file: %w", err)
	}
	defer func() {
		if cerr := tmp.Close(); cerr != nil {
			slog.Warn("failed to close scratch file", "error", cerr, "path", tmp.Name())
		}
		if rerr := os.Remove(tmp.Name()); rerr != nil {
			slog.Warn("failed to remove scratch file", "error", rerr, "path", tmp.Name())
		}
	}()

	if err := jpeg.Encode(tmp, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to re-encode image: %w", err)
	}
	if _, err := tmp.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to rewind scratch file: %w", err)
	}
	recompressed, err := jpeg.Decode(tmp)
	if err != nil {
		return nil, fmt.Errorf("failed to decode recompressed image: %w", err)
	}
	return recompressed, nil
}

// luminanceHistogram builds a 256-bin histogram of BT.601 luminance. Rows are
// processed by a worker pool with worker-local bins merged afterwards, so the
// result does not depend on scheduling.
func luminanceHistogram(img image.Image) []float64 {
	bounds := img.Bounds()
	height := bounds.Dy()

	partial := make([][256]float64, workerCount(height))
	parallelRows(height, func(worker, y int) {
		row := bounds.Min.Y + y
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			partial[worker][luminance8(img, x, row)]++
		}
	})
	return mergeHistograms(partial)
}

// differenceHistogram builds a 256-bin histogram of per-pixel absolute
// luminance differences between the original and its recompressed copy.
func differenceHistogram(original, recompressed image.Image) []float64 {
	bounds := original.Bounds()
	rb := recompressed.Bounds()
	height := bounds.Dy()

	partial := make([][256]float64, workerCount(height))
	parallelRows(height, func(worker, y int) {
		row := bounds.Min.Y + y
		rRow := rb.Min.Y + y
		for x := 0; x < bounds.Dx(); x++ {
			a := int(luminance8(original, bounds.Min.X+x, row))
			b := int(luminance8(recompressed, rb.Min.X+x, rRow))
			d := a - b
			if d < 0 {
				d = -d
			}
			partial[worker][d]++
		}
	})
	return mergeHistograms(partial)
}

func mergeHistograms(partial [][256]float64) []float64 {
	merged := make([]float64, 256)
	for w := range partial {
		for i := 0; i < 256; i++ {
			merged[i] += partial[w][i]
		}
	}
	return merged
}

func luminance8(img image.Image, x, y int) uint8 {
	r, g, b, _ := img.At(x, y).RGBA()
	r8 := int(r >> 8)
	g8 := int(g >> 8)
	b8 := int(b >> 8)
	return uint8((299*r8 + 587*g8 + 114*b8) / 1000)
}

func histogramTotal(hist []float64) float64 {
	var total float64
	for _, v := range hist {
		total += v
	}
	return total
}

func fractionAbove(hist []float64, threshold, total float64) float64 {
	var above float64
	for i, v := range hist {
		if float64(i) > threshold {
			above += v
		}
	}
	return above / total
}

// histogramEntropyBits converts the histogram to a probability distribution
// and returns its Shannon entropy in bits.
func histogramEntropyBits(hist []float64, total float64) float64 {
	probs := make([]float64, len(hist))
	for i, v := range hist {
		probs[i] = v / total
	}
	return stat.Entropy(probs) / math.Ln2
}

// clippedFraction returns the share of pixels in the extreme shadow and
// highlight bins.
func clippedFraction(hist []float64, total float64) float64 {
	var clipped float64
	for i := 0; i <= 2; i++ {
		clipped += hist[i]
	}
	for i := 253; i <= 255; i++ {
		clipped += hist[i]
	}
	return clipped / total
}
