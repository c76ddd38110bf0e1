package store

import (
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// ErrReportNotFound is returned when no report matches the lookup.
var ErrReportNotFound = errors.New("report not found")

type SQLiteStore struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteStore(connectionString string) (ReportStore, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases coherent; pooled
	// connections would each open their own empty database.
	db.SetMaxOpenConns(1)

	return &SQLiteStore{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteStore) EnsureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL,
		flags_key TEXT NOT NULL,
		schema_version TEXT NOT NULL,
		overall_score INTEGER NOT NULL,
		risk_label TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		payload BLOB NOT NULL
	)`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_reports_hash
		ON reports (content_hash, flags_key)`)
	return err
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) SaveReport(report *Report) error {
	if report.ID == "" {
		id, err := NewReportID()
		if err != nil {
			return err
		}
		report.ID = id
	}

	_, err := s.db.Exec(`INSERT INTO reports
		(id, content_hash, flags_key, schema_version, overall_score, risk_label, generated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.ContentHash,
		report.FlagsKey,
		report.SchemaVersion,
		report.OverallScore,
		report.RiskLabel,
		report.GeneratedAt.UTC().Format(time.RFC3339Nano),
		report.Payload)
	return err
}

func (s *SQLiteStore) GetReportByID(id string) (*Report, error) {
	row := s.db.QueryRow(`SELECT id, content_hash, flags_key, schema_version,
		overall_score, risk_label, generated_at, payload
		FROM reports WHERE id = ?`, id)
	return scanReport(row)
}

func (s *SQLiteStore) FindReport(contentHash, flagsKey string) (*Report, error) {
	row := s.db.QueryRow(`SELECT id, content_hash, flags_key, schema_version,
		overall_score, risk_label, generated_at, payload
		FROM reports WHERE content_hash = ? AND flags_key = ?
		ORDER BY generated_at DESC LIMIT 1`, contentHash, flagsKey)
	return scanReport(row)
}

func (s *SQLiteStore) ListReports() ([]*Report, error) {
	rows, err := s.db.Query(`SELECT id, content_hash, flags_key, schema_version,
		overall_score, risk_label, generated_at, payload
		FROM reports ORDER BY generated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	var reports []*Report
	for rows.Next() {
		report, err := scanReportRow(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (s *SQLiteStore) DeleteReport(id string) error {
	_, err := s.db.Exec("DELETE FROM reports WHERE id = ?", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row *sql.Row) (*Report, error) {
	report, err := scanReportRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	return report, err
}

func scanReportRow(scanner rowScanner) (*Report, error) {
	var report Report
	var generatedAt string
	if err := scanner.Scan(
		&report.ID,
		&report.ContentHash,
		&report.FlagsKey,
		&report.SchemaVersion,
		&report.OverallScore,
		&report.RiskLabel,
		&generatedAt,
		&report.Payload,
	); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, generatedAt)
	if err != nil {
		return nil, err
	}
	report.GeneratedAt = ts
	return &report, nil
}
