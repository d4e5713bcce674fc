// Package backend selects and builds the ledger persistence layer from
// configuration: Google Sheets for production, SQLite for offline use,
// memory for tests and the local REPL.
package backend

import (
	"context"

	"caja/internal/ledger"
)

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result contains the backend instance and optional cleanup function.
type Result struct {
	Backend ledger.Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific; credentials come from the environment
	// (GOOGLE_SERVICE_ACCOUNT_JSON / _FILE / GOOGLE_APPLICATION_CREDENTIALS).
	GoogleSpreadsheetID string
}

// Type identifies a persistence backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	SheetsBackend Type = "sheets"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{SQLiteBackend, SheetsBackend, MemoryBackend}
}

// Validate checks that the configuration is usable for its backend type.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return errInvalidType(c.Type)
	}
	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return errMissing("SQLITE_DB_PATH", SQLiteBackend)
		}
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return errMissing("GOOGLE_SPREADSHEET_ID", SheetsBackend)
		}
	case MemoryBackend:
		// Nothing to validate.
	}
	return nil
}
