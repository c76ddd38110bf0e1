package forensic

import "time"

// SchemaVersion identifies the shape of ForensicResult. Bump on any field
// rename or removal so stored reports stay interpretable.
const SchemaVersion = "1.0"

// AssetOverview is the caller-facing summary of the decoded asset.
type AssetOverview struct {
	Format     string `json:"format"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ColorSpace string `json:"color_space"`
	ByteSize   int    `json:"byte_size"`
}

// ForensicResult is the immutable aggregate produced by one analysis. Except
// for GeneratedAt it is a pure function of the submitted bytes and declared
// flags.
type ForensicResult struct {
	SchemaVersion string    `json:"schema_version"`
	PolicyVersion string    `json:"policy_version"`
	GeneratedAt   time.Time `json:"generated_at"`
	ContentHash   string    `json:"content_hash"`

	Asset    AssetOverview   `json:"asset"`
	Metadata *MetadataRecord `json:"metadata"`

	Scores  ComponentScores      `json:"scores"`
	Tamper  *TamperSignal        `json:"tamper"`
	AI      AIHeuristicSignal    `json:"ai"`
	GeoTime GeoTimeSignal        `json:"geo_time"`
	Custody ChainOfCustodyStatus `json:"chain_of_custody"`

	OverallScore int       `json:"overall_score"`
	RiskLabel    RiskLabel `json:"risk_label"`

	Explanations []string      `json:"explanations"`
	Capabilities CapabilitySet `json:"capabilities"`

	Recommendation string `json:"recommendation"`
}
