package taskpool

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the pool and the stealing
// scheduler to report queueing and execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {

	// IncSubmitted increments the submitted items counter.
	IncSubmitted()

	// IncExecuted increments the executed items counter.
	IncExecuted()

	// IncFailed increments the failed items counter.
	// Failed items are still counted as executed.
	IncFailed()

	// IncStolen increments the stolen items counter.
	IncStolen()

	// AddQueued adjusts the current queue depth by n (may be negative).
	AddQueued(n int64)
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Counters are padded apart so concurrent writers on different cores
// do not share a cache line.
// Writes are optimized for hot paths; reads are intended for cold-path
// observation.
type AtomicMetrics struct {
	submitted atomic.Uint64
	_         [56]byte
	executed  atomic.Uint64
	_         [56]byte
	failed    atomic.Uint64
	_         [56]byte
	stolen    atomic.Uint64
	_         [56]byte
	queued    atomic.Int64
}

// Submitted returns the total number of submitted items.
func (m *AtomicMetrics) Submitted() uint64 { return m.submitted.Load() }

// Executed returns the total number of executed items.
func (m *AtomicMetrics) Executed() uint64 { return m.executed.Load() }

// Failed returns the total number of items that returned an error
// or panicked.
func (m *AtomicMetrics) Failed() uint64 { return m.failed.Load() }

// Stolen returns the total number of items executed by a worker other
// than the one they were distributed to.
func (m *AtomicMetrics) Stolen() uint64 { return m.stolen.Load() }

// Queued returns the current number of queued items.
func (m *AtomicMetrics) Queued() int64 { return m.queued.Load() }

func (m *AtomicMetrics) IncSubmitted() { m.submitted.Add(1) }

func (m *AtomicMetrics) IncExecuted() { m.executed.Add(1) }

func (m *AtomicMetrics) IncFailed() { m.failed.Add(1) }

func (m *AtomicMetrics) IncStolen() { m.stolen.Add(1) }

func (m *AtomicMetrics) AddQueued(n int64) { m.queued.Add(n) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
//
// It can be used when metrics collection is disabled and
// zero overhead is desired.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted()     {}
func (m *NoopMetrics) IncExecuted()      {}
func (m *NoopMetrics) IncFailed()        {}
func (m *NoopMetrics) IncStolen()        {}
func (m *NoopMetrics) AddQueued(n int64) {}
