package scraper

import (
	"context"
	"sync"
	"time"
)

// PaceLimiter enforces a minimum interval between outbound fetches. It is a
// single token shared across all targets, not a per-host limiter: if the
// time elapsed since the previous fetch is below the floor, the caller
// blocks for the remaining delta. Safe for concurrent use.
type PaceLimiter struct {
	mu    sync.Mutex
	clock Clock
	floor time.Duration
	last  time.Time
}

// NewPaceLimiter creates a limiter with the given minimum interval.
func NewPaceLimiter(clock Clock, floor time.Duration) *PaceLimiter {
	return &PaceLimiter{clock: clock, floor: floor}
}

// Wait blocks until the floor interval has passed since the previous call,
// then records the new last-call instant. The first call never blocks.
func (p *PaceLimiter) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.last.IsZero() {
		elapsed := p.clock.Now().Sub(p.last)
		if elapsed < p.floor {
			if err := p.clock.Sleep(ctx, p.floor-elapsed); err != nil {
				return err
			}
		}
	}

	p.last = p.clock.Now()
	return nil
}
