package taskpool

import (
	"sync"
	"testing"
)

func TestAtomicMetricsCounters(t *testing.T) {
	var m AtomicMetrics

	const goroutines = 8
	const perG = 1000
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				m.IncSubmitted()
				m.IncExecuted()
				m.AddQueued(1)
				m.AddQueued(-1)
			}
		}()
	}
	wg.Wait()

	if got := m.Submitted(); got != goroutines*perG {
		t.Fatalf("submitted = %d; want %d", got, goroutines*perG)
	}
	if got := m.Executed(); got != goroutines*perG {
		t.Fatalf("executed = %d; want %d", got, goroutines*perG)
	}
	if got := m.Queued(); got != 0 {
		t.Fatalf("queued = %d; want 0", got)
	}
	if got := m.Failed(); got != 0 {
		t.Fatalf("failed = %d; want 0", got)
	}
	if got := m.Stolen(); got != 0 {
		t.Fatalf("stolen = %d; want 0", got)
	}
}

func TestNoopMetricsIsPolicy(t *testing.T) {
	var _ MetricsPolicy = (*NoopMetrics)(nil)
	var _ MetricsPolicy = (*AtomicMetrics)(nil)
}
