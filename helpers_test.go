package taskpool

import (
	"runtime"
	"testing"
	"time"
)

// cpuCost is the deterministic CPU-bound workload used across the
// tests: cost -> sum of i*i for i in [0, cost).
func cpuCost(cost int) int64 {
	var total int64
	for i := 0; i < cost; i++ {
		total += int64(i) * int64(i)
	}
	return total
}

// sumSquares returns the expected total when every item i in [0, n)
// contributes i*i.
func sumSquares(n int) int64 {
	var total int64
	for i := 0; i < n; i++ {
		total += int64(i) * int64(i)
	}
	return total
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}
