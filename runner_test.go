package wkpdf

// Notes:
// - runError is tested directly: a renderer exiting cleanly at the instant
//   its deadline passes cannot be staged reliably with a real process.
// - *exec.ExitError mapping is covered by TestExecRunner_NonZeroExit.

import (
	"context"
	"errors"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestRunError - Outcome classification after Wait
// ---------------------------------------------------------------------------

func TestRunError(t *testing.T) {
	t.Parallel()

	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	t.Cleanup(cancelExpired)
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	live := context.Background()

	errWait := errors.New("wait failed")
	errCopy := errors.New("copy failed")

	tests := []struct {
		name     string
		ctx      context.Context
		waitErr  error
		copyErr  error
		wantNil  bool
		wantErrs []error
	}{
		{name: "clean exit", ctx: live, wantNil: true},
		{name: "clean exit after deadline", ctx: expired, wantNil: true},
		{name: "clean exit after cancel", ctx: canceled, wantNil: true},
		{name: "killed at deadline", ctx: expired, waitErr: errWait, wantErrs: []error{ErrTimeout, context.DeadlineExceeded}},
		{name: "killed on cancel", ctx: canceled, waitErr: errWait, wantErrs: []error{context.Canceled}},
		{name: "copy failure at deadline", ctx: expired, copyErr: errCopy, wantErrs: []error{ErrTimeout}},
		{name: "wait failure", ctx: live, waitErr: errWait, wantErrs: []error{errWait}},
		{name: "copy failure", ctx: live, copyErr: errCopy, wantErrs: []error{errCopy}},
		{name: "wait failure wins over copy", ctx: live, waitErr: errWait, copyErr: errCopy, wantErrs: []error{errWait}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := runError(tt.ctx, "/usr/bin/wkhtmltopdf", tt.waitErr, tt.copyErr, "")
			if tt.wantNil {
				if err != nil {
					t.Fatalf("runError() = %v, want nil", err)
				}
				return
			}
			for _, want := range tt.wantErrs {
				if !errors.Is(err, want) {
					t.Errorf("runError() = %v, want errors.Is %v", err, want)
				}
			}
		})
	}
}
