package taskpool

import (
	"runtime"
)

const (
	// DefaultQueueCapacity is used by NewBoundedQueue when the caller
	// passes a non-positive capacity.
	DefaultQueueCapacity = 64
)

// Options configure a Pool or a StealingScheduler.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// Workers is the number of worker goroutines.
	// Defaults to GOMAXPROCS.
	Workers int

	// Metrics receives queueing and execution events.
	// Defaults to NoopMetrics.
	Metrics MetricsPolicy

	// OnJobError, if set, is called with every error returned by a
	// task body or produced by panic recovery. Errors are still
	// recorded on the task's handle where one exists.
	OnJobError func(error)

	// OnInternalError, if set, is called for non-task failures such
	// as worker setup problems.
	OnInternalError func(error)

	// PinWorkers locks each worker to an OS thread and pins it to a
	// CPU core. Linux only; a no-op elsewhere.
	PinWorkers bool
}

func (o *Options) FillDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
}
