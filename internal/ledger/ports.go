// Package ledger declares the ports every persistence backend implements.
// The core treats the backend as append-only; records are never edited or
// deleted from here.
package ledger

import (
	"context"

	"caja/internal/core"
)

type (
	// RecordAppender persists one committed record and returns an opaque
	// reference (sheet range, row id, ...) for logging.
	RecordAppender interface {
		Append(ctx context.Context, r core.Record) (ref string, err error)
	}

	// RecordLister returns the records whose date falls inside the window,
	// bounds inclusive. A zero window means everything.
	RecordLister interface {
		ListRecords(ctx context.Context, w core.Window) ([]core.Record, error)
	}

	// Backend is the full persistence surface the service wires up.
	Backend interface {
		RecordAppender
		RecordLister
	}
)
