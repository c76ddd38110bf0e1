package store

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) ReportStore {
	t.Helper()
	s, err := NewStore("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func sampleReport(hash string) *Report {
	return &Report{
		ContentHash:   hash,
		FlagsKey:      "secure=false;location=",
		SchemaVersion: "1.0",
		OverallScore:  47,
		RiskLabel:     "Suspicious",
		GeneratedAt:   time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
		Payload:       []byte(`{"overall_score":47}`),
	}
}

func TestSaveAndGetReport(t *testing.T) {
	s := newTestStore(t)

	report := sampleReport("abc123")
	if err := s.SaveReport(report); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if report.ID == "" {
		t.Fatal("Expected an ID to be generated")
	}

	loaded, err := s.GetReportByID(report.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if loaded.ContentHash != "abc123" {
		t.Errorf("Expected content hash abc123, got %s", loaded.ContentHash)
	}
	if loaded.OverallScore != 47 || loaded.RiskLabel != "Suspicious" {
		t.Errorf("Expected score 47/Suspicious, got %d/%s", loaded.OverallScore, loaded.RiskLabel)
	}
	if !loaded.GeneratedAt.Equal(report.GeneratedAt) {
		t.Errorf("Expected timestamp %v, got %v", report.GeneratedAt, loaded.GeneratedAt)
	}
	if string(loaded.Payload) != string(report.Payload) {
		t.Errorf("Expected payload round-trip, got %s", loaded.Payload)
	}
}

func TestFindReportByHashAndFlags(t *testing.T) {
	s := newTestStore(t)

	report := sampleReport("deadbeef")
	if err := s.SaveReport(report); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	found, err := s.FindReport("deadbeef", report.FlagsKey)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if found.ID != report.ID {
		t.Errorf("Expected ID %s, got %s", report.ID, found.ID)
	}

	// Same content analyzed under different flags is a different report.
	if _, err := s.FindReport("deadbeef", "secure=true;location="); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("Expected ErrReportNotFound for other flags, got %v", err)
	}
}

func TestGetMissingReport(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetReportByID("CLM-missing"); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("Expected ErrReportNotFound, got %v", err)
	}
}

func TestListAndDeleteReports(t *testing.T) {
	s := newTestStore(t)

	first := sampleReport("hash-1")
	second := sampleReport("hash-2")
	second.GeneratedAt = first.GeneratedAt.Add(time.Hour)
	if err := s.SaveReport(first); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := s.SaveReport(second); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	reports, err := s.ListReports()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("Expected 2 reports, got %d", len(reports))
	}
	if reports[0].ContentHash != "hash-2" {
		t.Errorf("Expected newest report first, got %s", reports[0].ContentHash)
	}

	if err := s.DeleteReport(first.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	reports, err = s.ListReports()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(reports) != 1 {
		t.Errorf("Expected 1 report after delete, got %d", len(reports))
	}
}

func TestUnsupportedStoreDriver(t *testing.T) {
	if _, err := NewStore("postgres", ""); err == nil {
		t.Error("Expected error for unsupported store driver")
	}
}

func TestNewReportID(t *testing.T) {
	id, err := NewReportID()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.HasPrefix(id, "CLM-") {
		t.Errorf("Expected CLM- prefix, got %s", id)
	}
	// Prefix plus canonical UUID length.
	if len(id) != len("CLM-")+36 {
		t.Errorf("Expected canonical UUID length, got %d (%s)", len(id), id)
	}

	other, err := NewReportID()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if id == other {
		t.Error("Expected unique IDs")
	}
}
