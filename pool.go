package taskpool

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/eapache/queue"
)

// pending pairs a task with the handle its result is delivered on.
// Owned by the shared queue until a worker dequeues it; from that
// point the dequeuing worker owns it exclusively.
type pending[T, R any] struct {
	task   Task[T, R]
	handle *Handle[R]
}

// Pool executes submitted tasks on a fixed number of long-lived
// workers draining one shared FIFO queue.
//
// The queue is unbounded, so Submit never blocks; it only fails once
// shutdown has begun. Workers park on a condition variable while the
// queue is empty, following the guarded-wait discipline: the predicate
// is rechecked under the queue lock after every wake.
type Pool[T, R any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	tasks    *queue.Queue // of pending[T, R], guarded by mu
	stopping bool         // monotonic, guarded by mu

	wg       sync.WaitGroup
	stopOnce sync.Once

	workers       int
	activeWorkers atomic.Int32
	metrics       MetricsPolicy

	onJobError      func(error)
	onInternalError func(error)
}

// NewPool spawns opts.Workers workers, each entering a wait loop.
func NewPool[T, R any](opts Options) *Pool[T, R] {
	opts.FillDefaults()

	p := &Pool[T, R]{
		tasks:           queue.New(),
		workers:         opts.Workers,
		metrics:         opts.Metrics,
		onJobError:      opts.OnJobError,
		onInternalError: opts.OnInternalError,
	}
	p.notEmpty = sync.NewCond(&p.mu)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i, opts.PinWorkers)
	}
	return p
}

// Submit appends the task to the shared queue and wakes one waiting
// worker. It never blocks; after shutdown has begun it fails with
// ErrPoolClosed. The returned Handle eventually carries the result.
func (p *Pool[T, R]) Submit(task Task[T, R]) (*Handle[R], error) {
	if task.Fn == nil {
		return nil, ErrNilFunc
	}
	if task.Ctx == nil {
		task.Ctx = context.Background()
	}

	h := newHandle[R]()
	p.mu.Lock()
	if p.stopping {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.tasks.Add(pending[T, R]{task: task, handle: h})
	p.mu.Unlock()
	p.notEmpty.Signal()

	p.metrics.IncSubmitted()
	p.metrics.AddQueued(1)
	return h, nil
}

// Shutdown sets the termination flag, wakes all workers, and joins
// them within ctx. Workers drain the queue completely before exiting;
// no queued task is discarded. Safe to call more than once.
func (p *Pool[T, R]) Shutdown(ctx context.Context) error {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopping = true
		p.mu.Unlock()
		p.notEmpty.Broadcast()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.wg.Wait()
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop is Shutdown without a deadline.
func (p *Pool[T, R]) Stop() { _ = p.Shutdown(context.Background()) }

func (p *Pool[T, R]) worker(id int, pin bool) {
	defer p.wg.Done()

	if pin {
		runtime.LockOSThread()
		if err := PinToCPU(id % runtime.NumCPU()); err != nil {
			p.reportInternalError(fmt.Errorf("taskpool: pin worker %d: %w", id, err))
		}
	}

	for {
		p.mu.Lock()
		for p.tasks.Length() == 0 && !p.stopping {
			p.notEmpty.Wait()
		}
		if p.tasks.Length() == 0 {
			// stopping and drained
			p.mu.Unlock()
			return
		}
		it := p.tasks.Remove().(pending[T, R])
		p.mu.Unlock()

		p.metrics.AddQueued(-1)
		p.runTask(it)
	}
}

// runTask executes one task outside the queue lock, completing its
// handle exactly once. A panic or error is recorded on that handle
// only and never terminates the worker.
func (p *Pool[T, R]) runTask(it pending[T, R]) {
	p.activeWorkers.Add(1)
	defer p.activeWorkers.Add(-1)

	var (
		res R
		err error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("taskpool: task panicked: %v", r)
				lg.FromContext(it.task.Ctx).Error("task panicked", lg.Any("panic", r))
			}
			if it.task.CleanupFunc != nil {
				it.task.CleanupFunc()
			}
		}()
		res, err = it.task.Fn(it.task.Payload)
	}()

	it.handle.complete(res, err)
	p.metrics.IncExecuted()
	if err != nil {
		p.metrics.IncFailed()
		p.reportJobError(err)
	}
}

// ActiveWorkers returns the number of workers currently executing a task.
func (p *Pool[T, R]) ActiveWorkers() int32 { return p.activeWorkers.Load() }

// QueueLength returns the number of tasks waiting in the shared queue.
func (p *Pool[T, R]) QueueLength() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tasks.Length()
}

// Workers returns the configured worker count.
func (p *Pool[T, R]) Workers() int { return p.workers }
