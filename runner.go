package wkpdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-wkpdf/internal/process"
)

// waitDelay bounds how long Wait blocks on pipes held open by orphaned
// children after the renderer has been killed.
const waitDelay = 5 * time.Second

// runner executes a built command, copying its standard output to stdout.
type runner interface {
	Run(ctx context.Context, cmd Command, stdout io.Writer) error
}

// execRunner implements runner with os/exec.
type execRunner struct {
	logger *slog.Logger
}

func (r *execRunner) Run(ctx context.Context, cmd Command, stdout io.Writer) error {
	// #nosec G204 -- argv is passed without a shell; the path comes from the locator
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	process.Isolate(c)
	c.Cancel = func() error {
		process.KillProcessGroup(c.Process.Pid)
		return c.Process.Kill()
	}
	c.WaitDelay = waitDelay

	stdoutPipe, err := c.StdoutPipe()
	if err != nil {
		return fmt.Errorf("creating stdout pipe: %w", err)
	}
	stderrPipe, err := c.StderrPipe()
	if err != nil {
		return fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := c.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}

	// Both pipes are drained concurrently: a renderer filling the stderr
	// buffer while we block on stdout (or the reverse) would never exit.
	var stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		return copyOutput(stdout, stdoutPipe)
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)
		return err
	})

	copyErr := g.Wait()
	waitErr := c.Wait()
	if err := runError(ctx, cmd.Path, waitErr, copyErr, stderr.String()); err != nil {
		return err
	}

	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		r.logger.Debug("renderer stderr", slog.String("output", msg))
	}
	return nil
}

// runError classifies the outcome of a finished run. The context is only
// consulted when the run failed: a renderer that exited cleanly just as the
// deadline passed still produced a complete PDF.
func runError(ctx context.Context, path string, waitErr, copyErr error, stderr string) error {
	if waitErr == nil && copyErr == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrTimeout, ctxErr)
		}
		return ctxErr
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return &ExecError{ExitCode: exitErr.ExitCode(), Stderr: stderr}
		}
		return fmt.Errorf("waiting for %s: %w", path, waitErr)
	}
	return copyErr
}

// copyOutput copies src to dst. When dst fails, src is still drained so the
// child process can run to completion and report its own status.
func copyOutput(dst io.Writer, src io.Reader) error {
	ew := &errWriter{w: dst}
	_, err := io.Copy(ew, src)
	if ew.err != nil {
		_, _ = io.Copy(io.Discard, src)
		return fmt.Errorf("%w: %w", ErrWriteOutput, ew.err)
	}
	if err != nil {
		return fmt.Errorf("reading renderer output: %w", err)
	}
	return nil
}

// errWriter records the first error returned by the wrapped writer.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
