package wkpdf

import "runtime"

// Worker sizing bounds for running several Documents in parallel.
const (
	MinWorkers = 1

	// MaxWorkers caps concurrent renderer processes; each one loads a full
	// WebKit engine.
	MaxWorkers = 8

	cpuDivisor = 2
)

// ResolveWorkers returns how many conversions to run at once.
// An explicit positive value wins; otherwise half of GOMAXPROCS, clamped to
// [MinWorkers, MaxWorkers].
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS reflects container CPU quotas when automaxprocs is loaded.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return min(max(n, MinWorkers), MaxWorkers)
}
