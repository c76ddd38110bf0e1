package forensic

// PolicyVersion identifies the scoring configuration below. Any change to a
// weight or threshold must bump this value so stored reports remain auditable.
const PolicyVersion = "2026.1"

// ScoringPolicy enumerates every weight and threshold used by the engine in one
// place. Scores produced under the same policy version are reproducible.
type ScoringPolicy struct {
	// Metadata integrity deductions (applied to a starting score of 100).
	DeductMissingDevice    int
	DeductMissingTimestamp int
	DeductMissingGPS       int
	DeductEditingSoftware  int
	DeductUnreadableBlock  int

	// Error level analysis.
	RecompressionQuality  int     // JPEG quality for the scratch re-encode
	DiffPixelThreshold    float64 // luminance delta counting a pixel as divergent
	MeanDiffGain          float64 // mean diff magnitude -> local score slope
	ExceedFractionGain    float64 // divergent-pixel fraction -> local score slope
	OversmoothDiffCeiling float64 // mean diff at or above this clears the prior-compression signal

	// Global statistics indicators (computed from the original alone).
	LowEntropyBits        float64 // histogram entropy below this is suspicious
	ClippedFractionLimit  float64 // clipped highlight/shadow pixel fraction
	LowContrastStdDev     float64 // global contrast (std dev) below this
	IncrementLowEntropy   int
	IncrementClipping     int
	IncrementLowContrast  int

	// Tamper probability combination. Weights sum to 1.
	TamperLocalWeight    float64
	TamperGlobalWeight   float64
	TamperBaselineWeight float64
	TamperBaselineScore  float64 // irreducible uncertainty of the heuristic
	TamperFloor          int     // never certify zero tampering
	TamperCeiling        int     // never certify total tampering

	// AI generation heuristic.
	AIBaseScore           int
	AISquareResolution    int
	AISubMegapixel        int
	AIMissingMetadata     int
	AIGenerativeSoftware  int
	AILikelyCutoff        int // score above this is labeled likely AI-assisted
	GenerativeImageSizes  []int
	GenerativeToolMarkers []string
	EditingToolMarkers    []string

	// Geo/time confidence.
	GeoBaseScore        int
	GeoGPSPresent       int
	GeoTimestampPresent int
	GeoClaimedLocation  int
	GeoUntrustedCeiling int // cap when the capture pathway is not trusted
	GeoHighMin          int
	GeoMediumMin        int

	// Aggregation. Weights sum to 1 across the active signal set.
	WeightMetadata     float64
	WeightTamper       float64
	WeightAIHeuristic  float64
	WeightGeoTime      float64
	SecureCaptureBonus int
	TamperOverrideMin  int // tamper probability triggering the override cap
	OverallFloor       int

	// Risk classification thresholds partitioning [0,100].
	HighlyAuthenticMin   int // T1
	PartiallyAuthenticMin int // T2
	SuspiciousMin        int // T3
}

// DefaultPolicy returns the canonical scoring configuration for PolicyVersion.
func DefaultPolicy() ScoringPolicy {
	return ScoringPolicy{
		DeductMissingDevice:    25,
		DeductMissingTimestamp: 25,
		DeductMissingGPS:       20,
		DeductEditingSoftware:  20,
		DeductUnreadableBlock:  10,

		RecompressionQuality:  75,
		DiffPixelThreshold:    15,
		MeanDiffGain:          4.0,
		ExceedFractionGain:    50,
		OversmoothDiffCeiling: 20,

		LowEntropyBits:       6.5,
		ClippedFractionLimit: 0.10,
		LowContrastStdDev:    30,
		IncrementLowEntropy:  35,
		IncrementClipping:    30,
		IncrementLowContrast: 35,

		TamperLocalWeight:    0.5,
		TamperGlobalWeight:   0.3,
		TamperBaselineWeight: 0.2,
		TamperBaselineScore:  50,
		TamperFloor:          5,
		TamperCeiling:        95,

		AIBaseScore:          15,
		AISquareResolution:   25,
		AISubMegapixel:       15,
		AIMissingMetadata:    20,
		AIGenerativeSoftware: 35,
		AILikelyCutoff:       50,
		GenerativeImageSizes: []int{512, 768, 1024, 1536},
		GenerativeToolMarkers: []string{
			"midjourney", "stable diffusion", "dall-e", "dall·e",
			"firefly", "imagen", "flux",
		},
		EditingToolMarkers: []string{
			"photoshop", "snapseed", "lightroom", "gimp",
		},

		GeoBaseScore:        10,
		GeoGPSPresent:       45,
		GeoTimestampPresent: 25,
		GeoClaimedLocation:  10,
		GeoUntrustedCeiling: 40,
		GeoHighMin:          70,
		GeoMediumMin:        40,

		WeightMetadata:     0.35,
		WeightTamper:       0.30,
		WeightAIHeuristic:  0.20,
		WeightGeoTime:      0.15,
		SecureCaptureBonus: 10,
		TamperOverrideMin:  70,
		OverallFloor:       5,

		HighlyAuthenticMin:    80,
		PartiallyAuthenticMin: 60,
		SuspiciousMin:         40,
	}
}

// clampScore bounds a score to [lo, hi].
func clampScore(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
