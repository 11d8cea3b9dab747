package wkpdf

import (
	"runtime"
	"testing"
)

func TestResolveWorkers(t *testing.T) {
	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit value wins", 4, 4},
		{"explicit above max is kept", 16, 16},
		{"one for sequential", 1, 1},
		{"zero uses auto calculation", 0, min(max(gomaxprocs/2, 1), 8)},
		{"negative uses auto calculation", -3, min(max(gomaxprocs/2, 1), 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveWorkers(tt.workers); got != tt.want {
				t.Errorf("ResolveWorkers(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestResolveWorkers_Bounds(t *testing.T) {
	prev := runtime.GOMAXPROCS(64)
	t.Cleanup(func() { runtime.GOMAXPROCS(prev) })

	if got := ResolveWorkers(0); got != MaxWorkers {
		t.Errorf("ResolveWorkers(0) with 64 procs = %d, want %d", got, MaxWorkers)
	}

	runtime.GOMAXPROCS(1)
	if got := ResolveWorkers(0); got != MinWorkers {
		t.Errorf("ResolveWorkers(0) with 1 proc = %d, want %d", got, MinWorkers)
	}
}
