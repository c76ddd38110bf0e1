package store

import (
	"fmt"
	"log"
)

func NewStore(storeType, connectionString string) (ReportStore, error) {
	var reportStore ReportStore
	var err error

	switch storeType {
	case "sqlite":
		reportStore, err = NewSQLiteStore(connectionString)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", storeType)
	}

	// Ensure the schema exists (idempotent), important for in-memory SQLite
	log.Print("initializing report store schema (ensuring tables exist)")
	if err = reportStore.EnsureSchema(); err != nil {
		return nil, fmt.Errorf("failed to create report store schema: %w", err)
	}

	return reportStore, nil
}
