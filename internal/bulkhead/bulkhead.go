// internal/bulkhead/bulkhead.go
package bulkhead

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// ErrPoolFull is returned by Abort pools when every slot is busy.
var ErrPoolFull = errors.New("bulkhead pool saturated")

// OverflowPolicy decides what happens when a pool is saturated.
type OverflowPolicy int

const (
	// CallerRuns throttles the caller by executing the task inline. Used for
	// fraud-check and notification work so backpressure reaches the source.
	CallerRuns OverflowPolicy = iota

	// Abort fails fast instead of blocking. Used for general background work.
	Abort
)

// Pool isolates one dependency's work in a bounded set of goroutines so a
// slow collaborator cannot starve the others.
type Pool struct {
	name   string
	group  *errgroup.Group
	policy OverflowPolicy
	logger *slog.Logger
}

func New(name string, size int, policy OverflowPolicy, logger *slog.Logger) *Pool {
	g := &errgroup.Group{}
	g.SetLimit(size)
	return &Pool{name: name, group: g, policy: policy, logger: logger}
}

// Execute runs fn inside the pool and waits for its result. When the pool is
// saturated, CallerRuns executes fn on the calling goroutine and Abort
// returns ErrPoolFull without running it.
func (p *Pool) Execute(ctx context.Context, fn func() error) error {
	errc := make(chan error, 1)
	started := p.group.TryGo(func() error {
		errc <- fn()
		return nil
	})
	if !started {
		if p.policy == Abort {
			return ErrPoolFull
		}
		if p.logger != nil {
			p.logger.Debug("pool saturated, running in caller", "pool", p.name)
		}
		return fn()
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit schedules fn without waiting for it. Saturation follows the pool's
// overflow policy; a CallerRuns submit degrades to synchronous execution.
func (p *Pool) Submit(fn func() error) error {
	if p.group.TryGo(fn) {
		return nil
	}
	if p.policy == Abort {
		return ErrPoolFull
	}
	return fn()
}

// Wait blocks until every scheduled task has finished.
func (p *Pool) Wait() error {
	return p.group.Wait()
}
