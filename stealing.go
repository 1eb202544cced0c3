package taskpool

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/eapache/queue"
)

const (
	stealBackoffInitial = 50 * time.Microsecond
	stealBackoffMax     = time.Millisecond
)

// workerQueue is one worker's private queue. Only its owner and
// stealers targeting it contend for the lock, so contention is
// proportional to the steal rate, not to total work volume.
type workerQueue struct {
	mu    sync.Mutex
	items *queue.Queue
	_     [40]byte // keep neighbouring locks off one cache line
}

// StealingScheduler balances a statically partitioned batch of items
// across W workers. Workers consume their own queue first and steal
// one item from a uniformly random victim when locally empty.
//
// Workers exit only at global quiescence: when the shared completion
// counter equals the total number of distributed items. A worker's
// own queue being empty does not imply global completion.
type StealingScheduler[T any] struct {
	fn      func(T) error
	queues  []workerQueue
	workers int
	pin     bool

	total     uint64 // set before Run, read-only afterwards
	next      int    // round-robin cursor for Distribute
	completed atomic.Uint64
	running   atomic.Bool

	metrics         MetricsPolicy
	onJobError      func(error)
	onInternalError func(error)
}

// NewStealingScheduler creates a scheduler that executes every
// distributed item with fn on opts.Workers workers.
func NewStealingScheduler[T any](fn func(T) error, opts Options) *StealingScheduler[T] {
	opts.FillDefaults()

	s := &StealingScheduler[T]{
		fn:              fn,
		queues:          make([]workerQueue, opts.Workers),
		workers:         opts.Workers,
		pin:             opts.PinWorkers,
		metrics:         opts.Metrics,
		onJobError:      opts.OnJobError,
		onInternalError: opts.OnInternalError,
	}
	for i := range s.queues {
		s.queues[i].items = queue.New()
	}
	return s
}

// Distribute statically round-robin-partitions items across the local
// queues. It is only legal before Run and may be called repeatedly to
// build up the batch.
func (s *StealingScheduler[T]) Distribute(items []T) error {
	if s.running.Load() {
		return ErrRunning
	}
	for _, it := range items {
		s.queues[s.next%s.workers].items.Add(it)
		s.next++
	}
	s.total += uint64(len(items))
	s.metrics.AddQueued(int64(len(items)))
	return nil
}

// Run starts the workers and blocks until global quiescence: every
// distributed item has been executed exactly once. Cancelling ctx
// abandons the run; workers stop at their next iteration without
// preempting an item already executing.
func (s *StealingScheduler[T]) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrRunning
	}

	start := time.Now()
	var wg sync.WaitGroup
	for id := 0; id < s.workers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.worker(ctx, id)
		}(id)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()
	select {
	case <-done:
		lg.FromContext(ctx).Info("stealing run complete",
			lg.Int("workers", s.workers),
			lg.Any("items", s.completed.Load()),
			lg.String("elapsed", time.Since(start).String()),
		)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *StealingScheduler[T]) worker(ctx context.Context, id int) {
	if s.pin {
		runtime.LockOSThread()
		if err := PinToCPU(id % runtime.NumCPU()); err != nil {
			s.reportInternalError(fmt.Errorf("taskpool: pin worker %d: %w", id, err))
		}
	}

	seed := time.Now().UnixNano() + int64(id)
	rng := rand.New(rand.NewSource(seed))
	bo := boff.New(stealBackoffInitial, stealBackoffMax, seed)
	missed := false

	// terminal check on every iteration: exit only at quiescence
	for s.completed.Load() < s.total {
		if ctx.Err() != nil {
			return
		}

		item, ok := s.popLocal(id)
		if !ok {
			item, ok = s.trySteal(id, rng)
			if ok {
				s.metrics.IncStolen()
			}
		}
		if !ok {
			// both local pop and steal missed: bounded pause so the
			// victim's own progress is not starved by hot spinning
			time.Sleep(bo.Next())
			missed = true
			continue
		}
		if missed {
			bo = boff.New(stealBackoffInitial, stealBackoffMax, seed)
			missed = false
		}

		s.execute(item)
		s.completed.Add(1)
		s.metrics.IncExecuted()
		s.metrics.AddQueued(-1)
	}
}

// popLocal dequeues one item from the worker's own queue.
func (s *StealingScheduler[T]) popLocal(id int) (item T, ok bool) {
	q := &s.queues[id]
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Length() == 0 {
		var zero T
		return zero, false
	}
	return q.items.Remove().(T), true
}

// trySteal dequeues one item from a uniformly random victim other
// than the caller.
func (s *StealingScheduler[T]) trySteal(id int, rng *rand.Rand) (item T, ok bool) {
	if s.workers < 2 {
		var zero T
		return zero, false
	}
	victim := rng.Intn(s.workers - 1)
	if victim >= id {
		victim++
	}

	q := &s.queues[victim]
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Length() == 0 {
		var zero T
		return zero, false
	}
	return q.items.Remove().(T), true
}

// execute runs one item with per-item isolation: an error or panic is
// reported through OnJobError and never stops the worker. The caller
// counts the item as completed either way, otherwise quiescence would
// never be reached.
func (s *StealingScheduler[T]) execute(item T) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.IncFailed()
			s.reportJobError(fmt.Errorf("taskpool: item panicked: %v", r))
		}
	}()
	if err := s.fn(item); err != nil {
		s.metrics.IncFailed()
		s.reportJobError(err)
	}
}

// Completed returns the number of items executed so far.
func (s *StealingScheduler[T]) Completed() uint64 { return s.completed.Load() }

// Total returns the number of items distributed.
func (s *StealingScheduler[T]) Total() uint64 { return s.total }
