package hooks

import (
	"context"
	"errors"
	"sync"
)

type uowKey struct{}

// CommitQueue collects callbacks to run after a unit of work commits.
// The storage layer attaches one to the context for the duration of a
// transaction and flushes it once the commit succeeds; on rollback the
// queue is simply dropped.
type CommitQueue struct {
	mu  sync.Mutex
	fns []func(context.Context) error
}

// WithUnitOfWork attaches a fresh commit queue to the context and returns it.
func WithUnitOfWork(ctx context.Context) (context.Context, *CommitQueue) {
	q := &CommitQueue{}
	return context.WithValue(ctx, uowKey{}, q), q
}

// OnCommit schedules fn on the commit queue in ctx. It reports false when no
// unit of work is attached, in which case the caller runs fn immediately.
func OnCommit(ctx context.Context, fn func(context.Context) error) bool {
	q, ok := ctx.Value(uowKey{}).(*CommitQueue)
	if !ok {
		return false
	}
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
	return true
}

// Flush runs the queued callbacks in order and joins their errors. The
// originating operation has already committed by the time Flush runs, so
// errors here are a separate, later fault: callers log and count them
// rather than failing the operation.
func (q *CommitQueue) Flush(ctx context.Context) error {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()

	var errs []error
	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
