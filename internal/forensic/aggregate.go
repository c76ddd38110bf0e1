package forensic

import "math"

// RiskLabel is one of the four ordered triage classifications.
type RiskLabel string

const (
	RiskHighlyAuthentic    RiskLabel = "Highly Authentic"
	RiskPartiallyAuthentic RiskLabel = "Partially Authentic"
	RiskSuspicious         RiskLabel = "Suspicious"
	RiskHighFraud          RiskLabel = "High Fraud Risk"
)

// ComponentScores carries the bounded per-component scores feeding the
// aggregate.
type ComponentScores struct {
	MetadataIntegrity int `json:"metadata_integrity"`
	TamperProbability int `json:"tamper_probability"`
	AIHeuristic       int `json:"ai_heuristic"`
	GeoTimeConfidence int `json:"geo_time_confidence"`
}

// AggregateAuthenticity combines the component scores into one overall score.
// Risk factors (tamper, AI) are polarity-normalized before the fixed weighted
// sum; the secure-capture bonus applies only when the chain of custody is
// intact; the tamper override caps the result below the Highly Authentic tier
// once tamper evidence is strong enough. The result is clamped to
// [OverallFloor, 100].
func AggregateAuthenticity(scores ComponentScores, custodyIntact bool, policy ScoringPolicy) int {
	weighted := policy.WeightMetadata*float64(scores.MetadataIntegrity) +
		policy.WeightTamper*float64(100-scores.TamperProbability) +
		policy.WeightAIHeuristic*float64(100-scores.AIHeuristic) +
		policy.WeightGeoTime*float64(scores.GeoTimeConfidence)

	overall := int(math.Round(weighted))
	if custodyIntact {
		overall += policy.SecureCaptureBonus
	}

	// Strong tamper evidence can never be masked by other favorable signals.
	if scores.TamperProbability >= policy.TamperOverrideMin {
		ceiling := policy.HighlyAuthenticMin - 1
		if overall > ceiling {
			overall = ceiling
		}
	}

	return clampScore(overall, policy.OverallFloor, 100)
}

// ClassifyRisk maps an overall score to its risk label. The thresholds
// partition [0,100] exhaustively and disjointly.
func ClassifyRisk(overall int, policy ScoringPolicy) RiskLabel {
	switch {
	case overall >= policy.HighlyAuthenticMin:
		return RiskHighlyAuthentic
	case overall >= policy.PartiallyAuthenticMin:
		return RiskPartiallyAuthentic
	case overall >= policy.SuspiciousMin:
		return RiskSuspicious
	default:
		return RiskHighFraud
	}
}
