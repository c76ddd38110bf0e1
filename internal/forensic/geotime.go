package forensic

// GeoConfidenceLevel buckets the geo/time confidence score.
type GeoConfidenceLevel string

const (
	GeoConfidenceHigh   GeoConfidenceLevel = "High"
	GeoConfidenceMedium GeoConfidenceLevel = "Medium"
	GeoConfidenceLow    GeoConfidenceLevel = "Low"
)

// GeoVerificationSource names where the geo/time evidence came from.
type GeoVerificationSource string

const (
	GeoSourceEmbeddedMetadata GeoVerificationSource = "embedded-metadata"
	GeoSourceUserDeclaration  GeoVerificationSource = "user-declaration"
)

// GeoTimeSignal is the bounded geo/time confidence plus its level and source.
type GeoTimeSignal struct {
	Score  int                   `json:"score"`
	Level  GeoConfidenceLevel    `json:"level"`
	Source GeoVerificationSource `json:"source"`
}

// ScoreGeoTimeConfidence derives the geo/time confidence from GPS and
// timestamp presence, the user-claimed location and the capture-pathway trust.
// An untrusted channel caps the confidence at a fixed low ceiling regardless
// of other signals.
func ScoreGeoTimeConfidence(record *MetadataRecord, claimedLocation string, pathwayTrusted bool, policy ScoringPolicy) GeoTimeSignal {
	score := policy.GeoBaseScore
	if record.GPSPresent {
		score += policy.GeoGPSPresent
	}
	if record.CapturedAt.Present() {
		score += policy.GeoTimestampPresent
	}
	if claimedLocation != "" {
		score += policy.GeoClaimedLocation
	}
	if !pathwayTrusted && score > policy.GeoUntrustedCeiling {
		score = policy.GeoUntrustedCeiling
	}
	score = clampScore(score, 0, 100)

	level := GeoConfidenceLow
	switch {
	case score >= policy.GeoHighMin:
		level = GeoConfidenceHigh
	case score >= policy.GeoMediumMin:
		level = GeoConfidenceMedium
	}

	source := GeoSourceUserDeclaration
	if record.GPSPresent {
		source = GeoSourceEmbeddedMetadata
	}

	return GeoTimeSignal{Score: score, Level: level, Source: source}
}
