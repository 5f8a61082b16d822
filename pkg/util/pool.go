package util

import "runtime"

// OptimalPoolSize returns the worker count for parallel file processing,
// clamped to [4, 32]. Ingesting a workspace of scene exports is I/O plus
// JSON decode; twice the core count keeps the decoder busy while reads
// block.
func OptimalPoolSize() int {
	n := runtime.NumCPU() * 2
	if n < 4 {
		n = 4
	}
	if n > 32 {
		n = 32
	}
	return n
}

// OptimalPoolSizeWithOverride uses override when positive, otherwise the
// computed size. Tests pin the pool to 1 for deterministic ordering.
func OptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return OptimalPoolSize()
}
