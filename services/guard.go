package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Guard is the process-wide exclusive section around every operation
// that reads the inventory and writes it back. Unlike sync.Mutex a
// waiting caller can give up when its context ends.
type Guard struct {
	sem *semaphore.Weighted
}

func NewGuard() *Guard {
	return &Guard{sem: semaphore.NewWeighted(1)}
}

func (g *Guard) Lock(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: waiting for allocation lock: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Unlock panics when the guard is not held.
func (g *Guard) Unlock() {
	g.sem.Release(1)
}

// Do runs fn inside the exclusive section.
func (g *Guard) Do(ctx context.Context, fn func() error) error {
	if err := g.Lock(ctx); err != nil {
		return err
	}
	defer g.Unlock()
	return fn()
}
