package scraper

import (
	"context"
	"time"
)

// Clock abstracts wall-clock reads and sleeps so the pacing and cache
// behavior can be driven deterministically in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep blocks for the given duration or until the context is
	// canceled, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
}

// realClock implements Clock over the system clock.
type realClock struct{}

// NewRealClock returns the system clock.
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
