package wkpdf

import (
	"strconv"

	"github.com/kballard/go-shellquote"
)

// Command is a fully built renderer invocation. Arguments are passed to the
// process directly, never through a shell.
type Command struct {
	Path string
	Args []string
}

// Argv returns the executable followed by its arguments.
func (c Command) Argv() []string {
	argv := make([]string, 0, len(c.Args)+1)
	argv = append(argv, c.Path)
	return append(argv, c.Args...)
}

// String returns the command line quoted for a POSIX shell, suitable for
// logging or copy-pasting into a terminal.
func (c Command) String() string {
	return shellquote.Join(c.Argv()...)
}

// buildCommand assembles the invocation for exe. Global flags and the
// document's page defaults come first, then header and footer, then parts in insertion order, then "-" so the
// PDF is written to standard output. Inline HTML is persisted to the
// document's temp store along the way.
func (d *Document) buildCommand(exe string) (Command, error) {
	s := &d.Settings
	args := []string{"-q"}

	if s.DisableSmartShrinking {
		args = append(args, "--disable-smart-shrinking")
	}
	if s.DisableInternalLinks {
		args = append(args, "--disable-internal-links")
	}

	// Page options before the first object are defaults for every page.
	if s.Encoding != "" {
		args = append(args, "--encoding", s.Encoding)
	}
	if s.PrintMediaType {
		args = append(args, "--print-media-type")
	}
	if s.StyleSheet != "" {
		args = append(args, "--user-style-sheet", s.StyleSheet)
	}
	if s.EnableLocalFileAccess {
		args = append(args, "--enable-local-file-access")
	}

	for _, m := range []struct {
		flag  string
		value float64
	}{
		{"-T", s.Margin.Top},
		{"-R", s.Margin.Right},
		{"-B", s.Margin.Bottom},
		{"-L", s.Margin.Left},
	} {
		if m.value >= 0 {
			args = append(args, m.flag, formatFloat(m.value))
		}
	}

	if s.DPI > 0 {
		args = append(args, "--dpi", strconv.Itoa(s.DPI))
	}
	if s.Orientation != "" {
		args = append(args, "--orientation", s.Orientation)
	}
	if s.Title != "" {
		args = append(args, "--title", s.Title)
	}

	switch {
	case s.Size.isCustom():
		args = append(args, "--page-width", s.Size.Width, "--page-height", s.Size.Height)
	case s.Size.Name != "":
		args = append(args, "--page-size", s.Size.Name)
	}

	if s.Zoom > 0 {
		args = append(args, "--zoom", formatFloat(s.Zoom))
	}

	env := &buildEnv{store: d.store}

	var err error
	for _, meta := range []*PageMeta{d.header, d.footer} {
		if meta == nil || meta.IsZero() {
			continue
		}
		if args, err = meta.appendArgs(args, env); err != nil {
			return Command{}, err
		}
	}

	for _, p := range d.parts {
		if args, err = p.appendArgs(args, env); err != nil {
			return Command{}, err
		}
	}

	args = append(args, "-")
	return Command{Path: exe, Args: args}, nil
}
