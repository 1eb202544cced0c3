package taskpool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBoundedQueueNoLossUnderBackpressure(t *testing.T) {
	const (
		producers   = 4
		consumers   = 3
		perProducer = 250
		total       = producers * perProducer
		capacity    = 8
	)
	q := NewBoundedQueue[int](capacity)

	var popped atomic.Int64
	var seen [total]atomic.Int32

	var prodWG, consWG sync.WaitGroup
	for p := 0; p < producers; p++ {
		prodWG.Add(1)
		go func(p int) {
			defer prodWG.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Push(p*perProducer + i); err != nil {
					t.Errorf("push: %v", err)
					return
				}
			}
		}(p)
	}
	for c := 0; c < consumers; c++ {
		consWG.Add(1)
		go func() {
			defer consWG.Done()
			for {
				item, ok := q.Pop()
				if !ok {
					return
				}
				seen[item].Add(1)
				popped.Add(1)
			}
		}()
	}

	prodWG.Wait()
	q.MarkFinished()
	consWG.Wait()

	if got := popped.Load(); got != total {
		t.Fatalf("popped = %d; want %d", got, total)
	}
	for i := range seen {
		if got := seen[i].Load(); got != 1 {
			t.Fatalf("item %d delivered %d times; want 1", i, got)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("pop after drain+finish returned an item; want exhausted")
	}
}

func TestBoundedQueueOccupancyBounds(t *testing.T) {
	q := NewBoundedQueue[int](4)
	for i := 0; i < 4; i++ {
		if err := q.Push(i); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if got := q.Len(); got != 4 {
		t.Fatalf("len = %d; want 4", got)
	}
	if got := q.Cap(); got != 4 {
		t.Fatalf("cap = %d; want 4", got)
	}
}

func TestBoundedQueuePushBlocksWhenFull(t *testing.T) {
	q := NewBoundedQueue[int](2)
	if err := q.Push(1); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := q.Push(2); err != nil {
		t.Fatalf("push: %v", err)
	}

	pushed := make(chan struct{})
	go func() {
		_ = q.Push(3)
		close(pushed)
	}()

	select {
	case <-pushed:
		t.Fatal("push into full queue did not block")
	case <-time.After(50 * time.Millisecond):
	}

	if _, ok := q.Pop(); !ok {
		t.Fatal("pop from full queue failed")
	}
	select {
	case <-pushed:
	case <-time.After(time.Second):
		t.Fatal("push did not resume after a slot freed")
	}
}

func TestBoundedQueuePopBlocksUntilPush(t *testing.T) {
	q := NewBoundedQueue[int](2)

	got := make(chan int, 1)
	go func() {
		if item, ok := q.Pop(); ok {
			got <- item
		}
	}()

	time.Sleep(20 * time.Millisecond)
	if err := q.Push(42); err != nil {
		t.Fatalf("push: %v", err)
	}

	select {
	case item := <-got:
		if item != 42 {
			t.Fatalf("popped %d; want 42", item)
		}
	case <-time.After(time.Second):
		t.Fatal("consumer did not wake on push")
	}
}

func TestBoundedQueueMarkFinishedWakesConsumers(t *testing.T) {
	q := NewBoundedQueue[int](2)

	const consumers = 3
	var wg sync.WaitGroup
	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := q.Pop(); ok {
				t.Error("pop on empty finished queue returned an item")
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	q.MarkFinished()

	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("blocked consumers were not woken by MarkFinished")
	}
}

func TestBoundedQueuePushAfterFinished(t *testing.T) {
	q := NewBoundedQueue[int](2)
	q.MarkFinished()
	q.MarkFinished() // idempotent

	if err := q.Push(1); !errors.Is(err, ErrExhausted) {
		t.Fatalf("push after finish: err = %v; want ErrExhausted", err)
	}
	if !q.Finished() {
		t.Fatal("Finished() = false after MarkFinished")
	}
}

func TestBoundedQueueDefaultCapacity(t *testing.T) {
	q := NewBoundedQueue[int](0)
	if got := q.Cap(); got != DefaultQueueCapacity {
		t.Fatalf("cap = %d; want %d", got, DefaultQueueCapacity)
	}
}

func TestBoundedQueueFIFOWithinSingleProducer(t *testing.T) {
	q := NewBoundedQueue[int](8)
	for i := 0; i < 5; i++ {
		if err := q.Push(i); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	for i := 0; i < 5; i++ {
		item, ok := q.Pop()
		if !ok || item != i {
			t.Fatalf("pop = (%d, %v); want (%d, true)", item, ok, i)
		}
	}
}
