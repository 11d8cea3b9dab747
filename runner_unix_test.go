//go:build !windows

package wkpdf

// Notes:
// - Runs execRunner against small /bin/sh scripts standing in for
//   wkhtmltopdf, so pipe handling, exit codes, and kills are exercised for
//   real without the binary installed
// - Scripts answer --version so the exec-based probe can be tested too
// - Output sizes exceed the typical 64 KiB pipe buffer to catch deadlocks
// - Not parallel: exec'ing a freshly written script while another goroutine
//   forks can fail with ETXTBSY

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// writeScript writes an executable shell script that prints a version for
// --version and runs body otherwise.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-wkhtmltopdf")
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"--version\" ]; then echo 'wkhtmltopdf 0.12.6 (with patched qt)'; exit 0; fi\n" +
		body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func newExecRunner() *execRunner {
	return &execRunner{logger: slog.New(slog.DiscardHandler)}
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.n++
	return 0, errors.New("disk full")
}

// ---------------------------------------------------------------------------
// execRunner
// ---------------------------------------------------------------------------

func TestExecRunner_Success(t *testing.T) {
	script := writeScript(t, `printf '%%PDF-1.4 args:%s' "$*"`)

	var out bytes.Buffer
	err := newExecRunner().Run(context.Background(), Command{Path: script, Args: []string{"-q", "it's; `x`", "-"}}, &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := "%PDF-1.4 args:-q it's; `x` -"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{
			name:     "stderr becomes message",
			body:     "echo 'Error: no such file' >&2; exit 1",
			wantCode: 1,
			wantMsg:  "Error: no such file",
		},
		{
			name:     "multi-line stderr kept verbatim",
			body:     "printf 'Loading pages\\nError: Failed loading page file:///x.html\\n' >&2; exit 2",
			wantCode: 2,
			wantMsg:  "Loading pages\nError: Failed loading page file:///x.html",
		},
		{
			name:     "silent failure",
			body:     "exit 3",
			wantCode: 3,
			wantMsg:  "wkhtmltopdf exited with status 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := writeScript(t, tt.body)
			err := newExecRunner().Run(context.Background(), Command{Path: script}, &bytes.Buffer{})

			var execErr *ExecError
			if !errors.As(err, &execErr) {
				t.Fatalf("Run() error = %v, want *ExecError", err)
			}
			if execErr.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", execErr.ExitCode, tt.wantCode)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
			if !errors.Is(err, ErrConversion) {
				t.Error("error does not match ErrConversion")
			}
		})
	}
}

func TestExecRunner_ChattyStreams(t *testing.T) {
	// 256 KiB on each stream, interleaved: sequential draining would block.
	body := `i=0
while [ $i -lt 4096 ]; do
  echo "warning: line $i padding padding padding padding" >&2
  echo "pdf-bytes line $i padding padding padding padding"
  i=$((i+1))
done`
	script := writeScript(t, body)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var out bytes.Buffer
	if err := newExecRunner().Run(ctx, Command{Path: script}, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 4096 {
		t.Errorf("stdout lines = %d, want 4096", lines)
	}
}

func TestExecRunner_FailingWriterStillDrains(t *testing.T) {
	script := writeScript(t, `i=0
while [ $i -lt 4096 ]; do
  echo "pdf-bytes line $i padding padding padding padding"
  i=$((i+1))
done`)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	w := &failingWriter{}
	err := newExecRunner().Run(ctx, Command{Path: script}, w)
	if !errors.Is(err, ErrWriteOutput) {
		t.Fatalf("Run() error = %v, want ErrWriteOutput", err)
	}
	if w.n != 1 {
		t.Errorf("writer called %d times, want 1", w.n)
	}
}

func TestExecRunner_Timeout(t *testing.T) {
	// The child sleep shares the process group and must die with the shell.
	script := writeScript(t, "sleep 30; echo done")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := newExecRunner().Run(ctx, Command{Path: script}, &bytes.Buffer{})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run() error = %v, want ErrTimeout", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want context.DeadlineExceeded in chain", err)
	}
	if elapsed > 5*time.Second {
		t.Errorf("Run() returned after %v, process group not killed", elapsed)
	}
}

func TestExecRunner_Cancel(t *testing.T) {
	script := writeScript(t, "sleep 30")

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	err := newExecRunner().Run(ctx, Command{Path: script}, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("cancellation reported as timeout")
	}
}

func TestExecRunner_MissingExecutable(t *testing.T) {
	err := newExecRunner().Run(context.Background(), Command{Path: filepath.Join(t.TempDir(), "nope")}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("Run() error = nil")
	}
	if errors.Is(err, ErrConversion) {
		t.Error("start failure reported as conversion failure")
	}
}

// ---------------------------------------------------------------------------
// execProbe and full conversion
// ---------------------------------------------------------------------------

func TestExecProbe(t *testing.T) {
	script := writeScript(t, "exit 0")

	version, err := execProbe(context.Background(), script)
	if err != nil {
		t.Fatalf("execProbe() error = %v", err)
	}
	if version != "wkhtmltopdf 0.12.6 (with patched qt)" {
		t.Errorf("version = %q", version)
	}

	if _, err := execProbe(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("execProbe(missing) error = nil")
	}
}

func TestDocument_FailingRendererCleansUp(t *testing.T) {
	tmp := t.TempDir()
	script := writeScript(t, "echo 'Error: no such file' >&2; exit 1")

	d := NewDocument(tmp, WithLocator(NewLocator(script)))
	d.AddHTML("<h1>Hello</h1>", false)
	d.Footer().HTML = "<div>[page]</div>"

	_, err := d.Bytes(context.Background())
	if err == nil || err.Error() != "Error: no such file" {
		t.Fatalf("Bytes() error = %v, want stderr text", err)
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir has %d entries after failure, want 0", len(entries))
	}
}

func TestDocument_SaveWithScript(t *testing.T) {
	tmp := t.TempDir()
	// Echo the page file back so the test can check it was readable.
	script := writeScript(t, `for a in "$@"; do
  if [ "$prev" = "page" ]; then cat "$a"; fi
  prev="$a"
done`)

	d := NewDocument(tmp, WithLocator(NewLocator(script)))
	d.AddHTML("<h1>Round trip</h1>", false)

	out := filepath.Join(t.TempDir(), "out.pdf")
	if err := d.Save(context.Background(), out); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "<h1>Round trip</h1>" {
		t.Errorf("output = %q", got)
	}
}
