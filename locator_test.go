package wkpdf

// Notes:
// - Locator tests inject a probe func that records calls instead of running
//   binaries; the exec-based probe is covered by runner_unix_test.go
// - Caching is asserted on probe call counts

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"
)

// probeRecorder answers probes from a fixed set of available names.
type probeRecorder struct {
	mu        sync.Mutex
	available map[string]string
	calls     []string
}

func (p *probeRecorder) probe(_ context.Context, name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, name)
	if v, ok := p.available[name]; ok {
		return v, nil
	}
	return "", errors.New("exec: not found")
}

func (p *probeRecorder) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func TestLocator_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		available map[string]string
		wantPath  string
		wantCalls []string
		wantErr   error
	}{
		{
			name:      "first candidate responds",
			available: map[string]string{"wkhtmltopdf": "wkhtmltopdf 0.12.6", "wkhtmltopdf-amd64": "x"},
			wantPath:  "wkhtmltopdf",
			wantCalls: []string{"wkhtmltopdf"},
		},
		{
			name:      "falls back to arch suffix",
			available: map[string]string{"wkhtmltopdf-amd64": "wkhtmltopdf 0.12.5"},
			wantPath:  "wkhtmltopdf-amd64",
			wantCalls: []string{"wkhtmltopdf", "wkhtmltopdf-amd64"},
		},
		{
			name:      "last candidate",
			available: map[string]string{"wkhtmltopdf-i386": "wkhtmltopdf 0.12.4"},
			wantPath:  "wkhtmltopdf-i386",
			wantCalls: DefaultExecutables,
		},
		{
			name:      "none available",
			available: nil,
			wantCalls: DefaultExecutables,
			wantErr:   ErrExecutableNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &probeRecorder{available: tt.available}
			loc := NewLocatorWithProbe(rec.probe, DefaultExecutables...)

			path, err := loc.Resolve(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			if path != tt.wantPath {
				t.Errorf("Resolve() = %q, want %q", path, tt.wantPath)
			}
			if !slices.Equal(rec.calls, tt.wantCalls) {
				t.Errorf("probed %v, want %v", rec.calls, tt.wantCalls)
			}
			if tt.wantErr == nil && loc.Version() != tt.available[tt.wantPath] {
				t.Errorf("Version() = %q, want %q", loc.Version(), tt.available[tt.wantPath])
			}
		})
	}
}

func TestLocator_CachesResolution(t *testing.T) {
	t.Parallel()

	rec := &probeRecorder{available: map[string]string{"wkhtmltopdf": "v"}}
	loc := NewLocatorWithProbe(rec.probe, DefaultExecutables...)

	for range 5 {
		path, err := loc.Resolve(context.Background())
		if err != nil || path != "wkhtmltopdf" {
			t.Fatalf("Resolve() = %q, %v", path, err)
		}
	}
	if n := rec.callCount(); n != 1 {
		t.Errorf("probe called %d times, want 1", n)
	}
}

func TestLocator_CachesAbsence(t *testing.T) {
	t.Parallel()

	rec := &probeRecorder{}
	loc := NewLocatorWithProbe(rec.probe, DefaultExecutables...)

	for range 3 {
		if _, err := loc.Resolve(context.Background()); !errors.Is(err, ErrExecutableNotFound) {
			t.Fatalf("Resolve() error = %v, want ErrExecutableNotFound", err)
		}
	}
	if n := rec.callCount(); n != len(DefaultExecutables) {
		t.Errorf("probe called %d times, want %d (one pass)", n, len(DefaultExecutables))
	}
}

func TestLocator_Reset(t *testing.T) {
	t.Parallel()

	rec := &probeRecorder{}
	loc := NewLocatorWithProbe(rec.probe, "wkhtmltopdf")

	if _, err := loc.Resolve(context.Background()); !errors.Is(err, ErrExecutableNotFound) {
		t.Fatalf("Resolve() error = %v", err)
	}

	// Binary installed after the first probe.
	rec.mu.Lock()
	rec.available = map[string]string{"wkhtmltopdf": "wkhtmltopdf 0.12.6"}
	rec.mu.Unlock()

	if _, err := loc.Resolve(context.Background()); !errors.Is(err, ErrExecutableNotFound) {
		t.Fatal("Resolve() re-probed before Reset")
	}

	loc.Reset()
	if loc.Version() != "" {
		t.Errorf("Version() after Reset = %q, want empty", loc.Version())
	}

	path, err := loc.Resolve(context.Background())
	if err != nil || path != "wkhtmltopdf" {
		t.Fatalf("Resolve() after Reset = %q, %v", path, err)
	}
	if loc.Version() != "wkhtmltopdf 0.12.6" {
		t.Errorf("Version() = %q", loc.Version())
	}
}

func TestLocator_CancelledContextNotCached(t *testing.T) {
	t.Parallel()

	rec := &probeRecorder{available: map[string]string{"wkhtmltopdf": "v"}}
	loc := NewLocatorWithProbe(rec.probe, "wkhtmltopdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := loc.Resolve(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Resolve() error = %v, want context.Canceled", err)
	}

	path, err := loc.Resolve(context.Background())
	if err != nil || path != "wkhtmltopdf" {
		t.Fatalf("Resolve() after cancellation = %q, %v", path, err)
	}
}

func TestLocator_ConcurrentFirstUse(t *testing.T) {
	t.Parallel()

	rec := &probeRecorder{available: map[string]string{"wkhtmltopdf-amd64": "v"}}
	loc := NewLocatorWithProbe(rec.probe, DefaultExecutables...)

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			path, err := loc.Resolve(context.Background())
			if err != nil || path != "wkhtmltopdf-amd64" {
				t.Errorf("Resolve() = %q, %v", path, err)
			}
		})
	}
	wg.Wait()

	if n := rec.callCount(); n != 2 {
		t.Errorf("probe called %d times, want 2", n)
	}
}

func TestLocator_ReadersDoNotWaitOnResolve(t *testing.T) {
	t.Parallel()

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	loc := NewLocatorWithProbe(func(ctx context.Context, name string) (string, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return "wkhtmltopdf 0.12.6", nil
	}, "wkhtmltopdf")

	resolved := make(chan error, 1)
	go func() {
		_, err := loc.Resolve(context.Background())
		resolved <- err
	}()
	<-started

	returned := make(chan string, 1)
	go func() {
		v := loc.Version()
		loc.Reset()
		returned <- v
	}()
	select {
	case v := <-returned:
		if v != "" {
			t.Errorf("Version() while resolving = %q, want empty", v)
		}
	case <-time.After(2 * time.Second):
		close(release)
		t.Fatal("Version() and Reset() blocked behind a running Resolve")
	}

	close(release)
	if err := <-resolved; err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// The Reset issued mid-resolution wins: nothing was cached.
	if v := loc.Version(); v != "" {
		t.Errorf("Version() after Reset = %q, want empty", v)
	}
	path, err := loc.Resolve(context.Background())
	if err != nil || path != "wkhtmltopdf" {
		t.Fatalf("Resolve() = %q, %v", path, err)
	}
	if v := loc.Version(); v != "wkhtmltopdf 0.12.6" {
		t.Errorf("Version() = %q", v)
	}
}

func TestLocator_CandidatesCopy(t *testing.T) {
	t.Parallel()

	names := []string{"a", "b"}
	loc := NewLocator(names...)
	names[0] = "changed"

	got := loc.Candidates()
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Candidates() = %v", got)
	}
	got[1] = "changed"
	if loc.Candidates()[1] != "b" {
		t.Error("Candidates() exposed internal slice")
	}
}

func TestDefaultLocator_Candidates(t *testing.T) {
	t.Parallel()

	want := []string{"wkhtmltopdf", "wkhtmltopdf-amd64", "wkhtmltopdf-i386"}
	if got := DefaultLocator.Candidates(); !slices.Equal(got, want) {
		t.Errorf("DefaultLocator.Candidates() = %v, want %v", got, want)
	}
}
