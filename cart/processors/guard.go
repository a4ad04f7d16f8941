package processors

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// SingleFlight lets at most one run of a processor be in flight. A tick that
// arrives while a run is active is skipped, not queued: the next tick will
// pick up whatever work the skipped one would have found.
type SingleFlight struct {
	sem *semaphore.Weighted
}

// NewSingleFlight creates a guard for one processor.
func NewSingleFlight() *SingleFlight {
	return &SingleFlight{
		sem: semaphore.NewWeighted(1),
	}
}

// TryRun executes fn unless a run is already in flight. The returned bool
// reports whether fn ran.
func (g *SingleFlight) TryRun(ctx context.Context, fn func(ctx context.Context) error) (bool, error) {
	if !g.sem.TryAcquire(1) {
		return false, nil
	}
	defer g.sem.Release(1)

	return true, fn(ctx)
}
