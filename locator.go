package wkpdf

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// DefaultExecutables are the candidate names probed by DefaultLocator,
// in order. Architecture-suffixed names are shipped by some static builds.
var DefaultExecutables = []string{"wkhtmltopdf", "wkhtmltopdf-amd64", "wkhtmltopdf-i386"}

// DefaultLocator is shared by every Document created without WithLocator,
// so the executable is probed at most once per process.
var DefaultLocator = NewLocator(DefaultExecutables...)

// ProbeFunc runs a candidate executable with a version flag and returns the
// reported version. A nil error means the candidate is usable.
type ProbeFunc func(ctx context.Context, name string) (version string, err error)

const probeTimeout = 10 * time.Second

type locatorState int

const (
	stateUnprobed locatorState = iota
	stateResolved
	stateAbsent
)

// Locator finds the renderer executable among candidate names and caches the
// first one that answers a version probe. Once every candidate has failed the
// locator stays absent until Reset. Safe for concurrent use.
type Locator struct {
	candidates []string
	probe      ProbeFunc

	// resolveMu serializes probing; mu guards the cached result and is never
	// held while a probe runs, so Version and Reset do not wait on one.
	resolveMu sync.Mutex
	mu        sync.RWMutex
	state     locatorState
	path      string
	version   string
	gen       uint64
}

// NewLocator returns a locator probing candidates in order. Each candidate is
// a bare name looked up in PATH or a path to an executable.
func NewLocator(candidates ...string) *Locator {
	return NewLocatorWithProbe(execProbe, candidates...)
}

// NewLocatorWithProbe is NewLocator with a custom probe.
func NewLocatorWithProbe(probe ProbeFunc, candidates ...string) *Locator {
	c := make([]string, len(candidates))
	copy(c, candidates)
	return &Locator{candidates: c, probe: probe}
}

// Candidates returns a copy of the candidate names.
func (l *Locator) Candidates() []string {
	out := make([]string, len(l.candidates))
	copy(out, l.candidates)
	return out
}

// Resolve returns the cached executable, probing candidates on first use.
// A cancelled context interrupts probing without caching a result.
func (l *Locator) Resolve(ctx context.Context) (string, error) {
	if path, done, err := l.cached(); done {
		return path, err
	}

	l.resolveMu.Lock()
	defer l.resolveMu.Unlock()

	// Another caller may have resolved while we waited.
	if path, done, err := l.cached(); done {
		return path, err
	}
	l.mu.RLock()
	gen := l.gen
	l.mu.RUnlock()

	for _, name := range l.candidates {
		version, err := l.probe(ctx, name)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if err != nil {
			continue
		}
		l.commit(gen, stateResolved, name, version)
		return name, nil
	}

	l.commit(gen, stateAbsent, "", "")
	return "", l.notFound()
}

// cached reports the stored outcome; done is false while unprobed.
func (l *Locator) cached() (path string, done bool, err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	switch l.state {
	case stateResolved:
		return l.path, true, nil
	case stateAbsent:
		return "", true, l.notFound()
	}
	return "", false, nil
}

// commit stores a probing outcome unless Reset ran since gen was read.
func (l *Locator) commit(gen uint64, state locatorState, path, version string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.gen != gen {
		return
	}
	l.state = state
	l.path = path
	l.version = version
}

// Version returns the version reported by the resolved executable, or ""
// when nothing has been resolved yet.
func (l *Locator) Version() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// Reset forgets the cached result so the next Resolve probes again. A probe
// already running when Reset is called does not repopulate the cache.
func (l *Locator) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = stateUnprobed
	l.path = ""
	l.version = ""
	l.gen++
}

func (l *Locator) notFound() error {
	return fmt.Errorf("%w (tried %s)", ErrExecutableNotFound, strings.Join(l.candidates, ", "))
}

// execProbe runs "<name> --version" and returns its first output line.
func execProbe(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	// #nosec G204 -- name comes from the locator's candidate list
	cmd := exec.CommandContext(ctx, name, "--version")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", err
	}

	version, _, _ := strings.Cut(strings.TrimSpace(stdout.String()), "\n")
	return strings.TrimSpace(version), nil
}
