package session

import (
	"context"
	"time"
)

// Cleaner is implemented by stores that support periodic cleanup.
type Cleaner interface {
	CleanExpired() int
}

// Sweeper runs periodic cleanup of expired sessions until the context ends.
type Sweeper struct {
	store    Cleaner
	interval time.Duration
}

func NewSweeper(store Cleaner, interval time.Duration) *Sweeper {
	return &Sweeper{store: store, interval: interval}
}

// Run blocks, sweeping on each tick, until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.store.CleanExpired()
		}
	}
}
