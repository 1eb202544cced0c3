package taskpool

import (
	"errors"
)

var (
	// ErrPoolClosed is returned by Submit once shutdown has begun.
	// The caller may resubmit to a fresh pool or drop the task.
	ErrPoolClosed = errors.New("taskpool: pool closed")

	// ErrNilFunc is returned when a submitted Task has a nil Fn.
	ErrNilFunc = errors.New("taskpool: task func is nil")

	// ErrExhausted is returned by BoundedQueue.Push after MarkFinished.
	ErrExhausted = errors.New("taskpool: queue marked finished")

	// ErrRunning is returned when Distribute or Run is called on a
	// StealingScheduler that has already been started.
	ErrRunning = errors.New("taskpool: scheduler already running")
)
