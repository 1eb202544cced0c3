// Package taskpool provides a small concurrent task-execution substrate
// built from three independent constructs:
//
//   - Pool: a fixed-size worker pool draining one shared FIFO queue,
//     with asynchronous submission and per-task result handles.
//   - BoundedQueue: a fixed-capacity producer-consumer buffer with
//     backpressure and graceful drain-then-stop termination.
//   - StealingScheduler: a decentralized scheduler with per-worker
//     queues, local-first dequeue and randomized work stealing.
//
// Design goals
//
// The package is designed around the following principles:
//
//   - Exactly-once execution of every submitted item
//   - No lost wake-ups: every wait is a guarded wait, the predicate is
//     rechecked under the protecting lock after every wake
//   - Narrow lock scope: one lock per queue, never a lock across queues
//   - Clean shutdown: termination flags are monotonic and pending work
//     is drained before any worker exits
//
// Central-queue pool
//
// Pool workers block on a condition variable while the shared queue is
// empty and termination has not been requested. Submit appends under
// the queue lock, wakes exactly one worker, and returns a Handle that
// eventually carries the task's result or error. Shutdown sets the
// stop flag, wakes all workers, and joins them; every queued task runs
// before the pool goes down.
//
// Errors and panics inside a task body are recorded against that
// task's Handle only. They never terminate a worker or affect sibling
// tasks.
//
// Bounded queue
//
// BoundedQueue connects M producers to K consumers through a ring
// buffer of fixed capacity. Push suspends while the buffer is full,
// Pop suspends while it is empty and input may still arrive. After
// MarkFinished, consumers drain the remaining items and then observe
// exhaustion instead of blocking forever.
//
// Work stealing
//
// StealingScheduler partitions a static batch of items round-robin
// across per-worker queues. Each worker pops locally first and, when
// its own queue runs dry, steals a single item from a uniformly random
// victim under the victim's lock. A failed steal is followed by a
// short randomized backoff to keep the loop from spinning hot.
// Workers exit only when the global completion counter reaches the
// total number of distributed items; a worker's own queue being empty
// implies nothing about global progress.
//
// Observability
//
// All three constructs report through a pluggable MetricsPolicy.
// AtomicMetrics is a padded lock-free implementation for hot paths,
// NoopMetrics disables collection, and the observability/prometheus
// subpackage adapts the policy to Prometheus collectors.
//
// On Linux, workers may optionally be pinned to CPUs via
// Options.PinWorkers. This can help cache locality for CPU-bound
// items but is not universally beneficial.
package taskpool
