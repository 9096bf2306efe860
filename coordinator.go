package dispatch

import (
	"context"
	"sync"
)

// Executable is a fully resolved invocation: the parse walk succeeded, the
// permission gate passed, and the context holds every argument value.
type Executable[C any] struct {
	Context *CommandContext[C]
	Command *Command[C]
}

// Run executes the handler on the calling goroutine. A nil handler is a
// no-op. Handler panics are recovered and returned as ErrHandlerPanic so
// every coordinator reports the same failure shape.
func (e *Executable[C]) Run(ctx context.Context) (err error) {
	h := e.Command.Handler()
	if h == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = handlerPanic(e.Context.Path(), r)
		}
	}()
	return h.Execute(ctx, e.Context)
}

// ExecutionResult is the success value of a dispatch deferred.
type ExecutionResult[C any] struct {
	Context *CommandContext[C]
	Command *Command[C]
}

// ExecutionCoordinator decides where handlers run. Schedule must never
// block on the handler when the coordinator is asynchronous, and must
// resolve the returned deferred exactly once.
type ExecutionCoordinator[C any] interface {
	Schedule(ctx context.Context, exec *Executable[C]) *Deferred[*ExecutionResult[C]]
}

type immediateCoordinator[C any] struct{}

// Immediate returns the synchronous coordinator: handlers run inline on the
// dispatching goroutine and the deferred is resolved before Dispatch
// returns.
func Immediate[C any]() ExecutionCoordinator[C] {
	return immediateCoordinator[C]{}
}

// Schedule implements ExecutionCoordinator.
func (immediateCoordinator[C]) Schedule(ctx context.Context, exec *Executable[C]) *Deferred[*ExecutionResult[C]] {
	if err := exec.Run(ctx); err != nil {
		return resolvedDeferred[*ExecutionResult[C]](nil, err)
	}
	return resolvedDeferred(&ExecutionResult[C]{Context: exec.Context, Command: exec.Command}, nil)
}

// PoolCoordinator runs handlers off the dispatching goroutine on a bounded
// worker pool. Dispatch returns a pending deferred immediately after the
// parse walk.
type PoolCoordinator[C any] struct {
	sem chan struct{}
	wg  sync.WaitGroup

	mu     sync.Mutex // guards admission against Close
	closed bool
}

// NewPool returns a coordinator running at most workers handlers
// concurrently. workers below 1 is treated as 1.
func NewPool[C any](workers int) *PoolCoordinator[C] {
	if workers < 1 {
		workers = 1
	}
	return &PoolCoordinator[C]{sem: make(chan struct{}, workers)}
}

// Schedule implements ExecutionCoordinator.
func (p *PoolCoordinator[C]) Schedule(ctx context.Context, exec *Executable[C]) *Deferred[*ExecutionResult[C]] {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return resolvedDeferred[*ExecutionResult[C]](nil, coordinatorClosed())
	}
	p.wg.Add(1)
	p.mu.Unlock()

	d := newDeferred[*ExecutionResult[C]]()
	go func() {
		defer p.wg.Done()

		select {
		case p.sem <- struct{}{}:
		case <-ctx.Done():
			// Never started; a cancelled wait is the only way to drop work.
			d.resolve(nil, ctx.Err())
			return
		}
		defer func() { <-p.sem }()

		if err := exec.Run(ctx); err != nil {
			d.resolve(nil, err)
			return
		}
		d.resolve(&ExecutionResult[C]{Context: exec.Context, Command: exec.Command}, nil)
	}()
	return d
}

// Close stops accepting new work and waits for scheduled handlers to
// finish. Admission holds mu while joining the wait group, so once Close
// takes the lock every admitted handler is already counted and the wait is
// complete. Scheduling after Close resolves the deferred with
// ErrCoordinatorClosed.
func (p *PoolCoordinator[C]) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}

var (
	_ ExecutionCoordinator[any] = immediateCoordinator[any]{}
	_ ExecutionCoordinator[any] = (*PoolCoordinator[any])(nil)
)
