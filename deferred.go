package dispatch

import (
	"context"
	"sync"
)

// Deferred is a write-once promise. Dispatch and Suggest resolve their
// deferreds exactly once, with either a value or an error; failures are
// always delivered this way, never thrown across the scheduling boundary,
// so synchronous and off-thread execution observe the same failure shape.
type Deferred[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
	err  error
}

func newDeferred[T any]() *Deferred[T] {
	return &Deferred[T]{done: make(chan struct{})}
}

func resolvedDeferred[T any](val T, err error) *Deferred[T] {
	d := newDeferred[T]()
	d.resolve(val, err)
	return d
}

func (d *Deferred[T]) resolve(val T, err error) {
	d.once.Do(func() {
		d.val = val
		d.err = err
		close(d.done)
	})
}

// Done is closed once the deferred resolves.
func (d *Deferred[T]) Done() <-chan struct{} {
	return d.done
}

// Resolved reports whether the deferred has resolved, without blocking.
func (d *Deferred[T]) Resolved() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the deferred resolves or ctx expires. Expiry abandons
// the wait and returns ctx.Err(); it never cancels the underlying work, and
// the deferred still resolves for other waiters.
func (d *Deferred[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		return d.val, d.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
