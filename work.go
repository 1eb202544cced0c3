package taskpool

import (
	"context"
)

// TaskFunc is the function executed by a worker for a given task payload.
type TaskFunc[T, R any] func(T) (R, error)

// Task represents a single unit of work submitted to the pool.
//
// Payload is passed to Fn when executed.
// Ctx is attached for logging and cancellation checks inside Fn; it does
// not preempt a task that is already running.
// CleanupFunc, if set, runs after the task body, whether it succeeded,
// failed, or panicked.
type Task[T, R any] struct {
	Payload     T
	Fn          TaskFunc[T, R]
	Ctx         context.Context
	CleanupFunc func()
}

// Handle is a one-shot slot for the result of a submitted task.
//
// It is completed exactly once, by the worker that executed the task.
type Handle[R any] struct {
	done chan struct{}
	res  R
	err  error
}

func newHandle[R any]() *Handle[R] {
	return &Handle[R]{done: make(chan struct{})}
}

// complete stores the outcome and releases all waiters.
// Must be called at most once.
func (h *Handle[R]) complete(res R, err error) {
	h.res = res
	h.err = err
	close(h.done)
}

// Done returns a channel closed once the task has finished.
func (h *Handle[R]) Done() <-chan struct{} { return h.done }

// Wait blocks until the task finishes or ctx is done.
func (h *Handle[R]) Wait(ctx context.Context) (R, error) {
	select {
	case <-h.done:
		return h.res, h.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Result blocks until the task finishes and returns its outcome.
func (h *Handle[R]) Result() (R, error) {
	<-h.done
	return h.res, h.err
}

// Err blocks until the task finishes and returns its error, if any.
func (h *Handle[R]) Err() error {
	<-h.done
	return h.err
}
