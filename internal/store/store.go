package store

import "time"

// Report is one persisted analysis outcome. Payload holds the full
// ForensicResult JSON; the other columns are denormalized for listing and
// lookup without decoding the payload.
type Report struct {
	ID            string    `db:"id"`
	ContentHash   string    `db:"content_hash"`
	FlagsKey      string    `db:"flags_key"`
	SchemaVersion string    `db:"schema_version"`
	OverallScore  int       `db:"overall_score"`
	RiskLabel     string    `db:"risk_label"`
	GeneratedAt   time.Time `db:"generated_at"`
	Payload       []byte    `db:"payload"`
}

// ReportStore persists forensic reports. The scoring engine itself never
// touches persistence; this collaborator owns it.
type ReportStore interface {
	EnsureSchema() error
	Close() error

	// SaveReport inserts a report. A missing ID is generated.
	SaveReport(report *Report) error
	GetReportByID(id string) (*Report, error)
	// FindReport looks up a prior report for the same content and flags,
	// which is sound because analysis is deterministic per policy version.
	FindReport(contentHash, flagsKey string) (*Report, error)
	ListReports() ([]*Report, error)
	DeleteReport(id string) error
}
