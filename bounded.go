package taskpool

import (
	"sync"
)

// BoundedQueue is a fixed-capacity producer-consumer buffer.
//
// Producers suspend in Push while the buffer is full (backpressure);
// consumers suspend in Pop while it is empty and input may still
// arrive. After MarkFinished, remaining items are drained and further
// Pops report exhaustion. Items are never dropped or delivered twice.
//
// The buffer is a circular ring guarded by one mutex with two
// condition variables, one per direction. FIFO holds within the
// buffer; no global order is promised across multiple producers.
type BoundedQueue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	buf        []T // circular buffer
	head, tail int // read/write indices
	size       int // items currently buffered
	capacity   int

	finished bool // monotonic, guarded by mu
}

// NewBoundedQueue creates a queue with the given capacity.
// Non-positive capacities fall back to DefaultQueueCapacity.
func NewBoundedQueue[T any](capacity int) *BoundedQueue[T] {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	q := &BoundedQueue[T]{
		buf:      make([]T, capacity),
		capacity: capacity,
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push inserts item at the tail, suspending while the buffer is at
// capacity. It signals one waiting consumer. Pushing after
// MarkFinished fails with ErrExhausted.
func (q *BoundedQueue[T]) Push(item T) error {
	q.mu.Lock()
	for q.size == q.capacity && !q.finished {
		q.notFull.Wait()
	}
	if q.finished {
		q.mu.Unlock()
		return ErrExhausted
	}
	q.buf[q.tail] = item
	q.tail++
	if q.tail == q.capacity {
		q.tail = 0
	}
	q.size++
	q.mu.Unlock()

	q.notEmpty.Signal()
	return nil
}

// Pop removes and returns the oldest buffered item, suspending while
// the buffer is empty and MarkFinished has not been called. It
// returns ok=false only once the queue is both empty and finished.
// After removing an item it signals one waiting producer.
func (q *BoundedQueue[T]) Pop() (item T, ok bool) {
	q.mu.Lock()
	for q.size == 0 && !q.finished {
		q.notEmpty.Wait()
	}
	if q.size == 0 {
		// empty and finished: exhausted
		q.mu.Unlock()
		var zero T
		return zero, false
	}
	item = q.buf[q.head]
	var zero T
	q.buf[q.head] = zero // drop the buffer's reference
	q.head++
	if q.head == q.capacity {
		q.head = 0
	}
	q.size--
	q.mu.Unlock()

	q.notFull.Signal()
	return item, true
}

// MarkFinished records that no more input will arrive and wakes all
// blocked consumers and producers. The flag is monotonic; calling
// MarkFinished more than once is harmless.
func (q *BoundedQueue[T]) MarkFinished() {
	q.mu.Lock()
	q.finished = true
	q.mu.Unlock()

	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Len returns the number of items currently buffered.
func (q *BoundedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap returns the fixed capacity.
func (q *BoundedQueue[T]) Cap() int { return q.capacity }

// Finished reports whether MarkFinished has been called.
func (q *BoundedQueue[T]) Finished() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.finished
}
