package main

// Notes:
// - parseConvertFlags: positional args, short flags, changed-flag tracking.
// - Help returns flag.ErrHelp unwrapped; other parse errors wrap ErrUsage.

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Flag parsing
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	args := []string{
		"a.md", "-o", "out.pdf", "-w", "3", "-p", "Letter", "--margin-top", "0",
		"--footer-center", "[page]", "--toc-header-text", "Contents", "b.html", "-m",
	}

	var buf bytes.Buffer
	f, positional, err := parseConvertFlags(args, &buf)
	if err != nil {
		t.Fatalf("parseConvertFlags() error = %v", err)
	}

	if want := []string{"a.md", "b.html"}; !slices.Equal(positional, want) {
		t.Errorf("positional = %v, want %v", positional, want)
	}
	if f.io.output != "out.pdf" || f.io.workers != 3 || !f.io.merge {
		t.Errorf("io flags = %+v", f.io)
	}
	if f.page.size != "Letter" || f.footer.center != "[page]" || f.toc.headerText != "Contents" {
		t.Errorf("page/footer/toc flags not parsed: %+v %+v %+v", f.page, f.footer, f.toc)
	}

	for _, name := range []string{"output", "workers", "page-size", "margin-top", "footer-center", "toc-header-text", "merge"} {
		if !f.changed(name) {
			t.Errorf("changed(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"dpi", "margin", "header-center", "toc", "style"} {
		if f.changed(name) {
			t.Errorf("changed(%q) = true, want false", name)
		}
	}
}

func TestParseConvertFlags_ZeroValueIsChanged(t *testing.T) {
	t.Parallel()

	f, _, err := parseConvertFlags([]string{"--margin", "0", "a.md"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseConvertFlags() error = %v", err)
	}
	if !f.changed("margin") || f.page.margin != 0 {
		t.Errorf("explicit --margin 0 should be tracked, changed=%v value=%g", f.changed("margin"), f.page.margin)
	}
}

func TestParseConvertFlags_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown flag", []string{"--nope"}, ErrUsage},
		{"bad int", []string{"--dpi", "high"}, ErrUsage},
		{"missing value", []string{"a.md", "-o"}, ErrUsage},
		{"help", []string{"--help"}, flag.ErrHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			_, _, err := parseConvertFlags(tt.args, &buf)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("parseConvertFlags(%v) error = %v, want %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestParseConvertFlags_HelpPrintsUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, _, err := parseConvertFlags([]string{"-h"}, &buf); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	if !strings.Contains(buf.String(), "Usage:") {
		t.Errorf("help output missing usage:\n%s", buf.String())
	}
}

// ---------------------------------------------------------------------------
// TestNewConvertFlagSet - Flag registration
// ---------------------------------------------------------------------------

func TestNewConvertFlagSet_HeaderFooterSymmetry(t *testing.T) {
	t.Parallel()

	fs := newConvertFlagSet(&convertFlags{})
	for _, suffix := range []string{"html", "left", "center", "right", "line", "spacing", "font-name", "font-size"} {
		for _, role := range []string{"header", "footer"} {
			if fs.Lookup(role+"-"+suffix) == nil {
				t.Errorf("flag --%s-%s not registered", role, suffix)
			}
		}
	}
}
