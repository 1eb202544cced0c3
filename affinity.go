//go:build linux

package taskpool

import (
	"golang.org/x/sys/unix"
)

// PinToCPU restricts the calling thread to a single CPU core.
// Callers should lock the goroutine to its OS thread first.
func PinToCPU(cpu int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpu)
	return unix.SchedSetaffinity(0, &mask)
}
