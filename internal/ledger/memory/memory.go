// Package memory is an in-memory ledger backend for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"caja/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items []core.Record
	// AppendErr, when set, makes Append fail. Used to exercise the
	// persistence-failure path in tests.
	AppendErr error
}

func New() *Store {
	return &Store{}
}

// Append stores the record and returns a synthetic reference.
func (s *Store) Append(_ context.Context, r core.Record) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AppendErr != nil {
		return "", s.AppendErr
	}
	s.items = append(s.items, r)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// ListRecords returns the stored records inside the window.
func (s *Store) ListRecords(_ context.Context, w core.Window) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Record
	for _, r := range s.items {
		if w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
