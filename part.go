package wkpdf

import (
	"fmt"
	"strconv"
)

// Part is one unit of the document passed to the renderer: a page, a cover,
// a table of contents, or header/footer metadata. The set of implementations
// is closed: *HTMLPage, *FilePage, *TOC and *PageMeta.
type Part interface {
	appendArgs(args []string, env *buildEnv) ([]string, error)
}

// buildEnv carries the document state a part needs to render itself.
type buildEnv struct {
	store *TempStore
}

// PageOptions holds the placement and per-page overrides shared by HTML and
// file pages. Unset overrides emit nothing, so the page inherits the
// document defaults given in the global block.
type PageOptions struct {
	Cover                 bool
	Encoding              Override[string]
	PrintMediaType        Override[bool]
	StyleSheet            Override[string]
	EnableLocalFileAccess Override[bool]
}

// appendPage emits "page <path>" or "cover <path>" followed by the overrides
// that are set. An empty string override has no flag to emit.
func (o *PageOptions) appendPage(args []string, path string) []string {
	if o.Cover {
		args = append(args, "cover", path)
	} else {
		args = append(args, "page", path)
	}

	if enc, ok := o.Encoding.Value(); ok && enc != "" {
		args = append(args, "--encoding", enc)
	}
	if on, ok := o.PrintMediaType.Value(); ok {
		if on {
			args = append(args, "--print-media-type")
		} else {
			args = append(args, "--no-print-media-type")
		}
	}
	if css, ok := o.StyleSheet.Value(); ok && css != "" {
		args = append(args, "--user-style-sheet", css)
	}
	if on, ok := o.EnableLocalFileAccess.Value(); ok {
		if on {
			args = append(args, "--enable-local-file-access")
		} else {
			args = append(args, "--disable-local-file-access")
		}
	}
	return args
}

// HTMLPage is a page built from inline HTML. The content is written to a temp
// file when the command is built.
type HTMLPage struct {
	PageOptions
	HTML string
}

func (p *HTMLPage) appendArgs(args []string, env *buildEnv) ([]string, error) {
	path, err := env.store.Save([]byte(p.HTML))
	if err != nil {
		return nil, err
	}
	return p.appendPage(args, path), nil
}

// FilePage is a page read from an existing file path or URL, used as-is.
type FilePage struct {
	PageOptions
	Path string
}

func (p *FilePage) appendArgs(args []string, _ *buildEnv) ([]string, error) {
	if p.Path == "" {
		return nil, fmt.Errorf("%w: file page without a path", ErrEmptyPageSource)
	}
	return p.appendPage(args, p.Path), nil
}

// TOC asks the renderer to generate a table of contents from the headings of
// the pages that follow it.
type TOC struct {
	HeaderText         string
	DisableDottedLines bool
	DisableLinks       bool
	XSLStyleSheet      string
}

func (t *TOC) appendArgs(args []string, _ *buildEnv) ([]string, error) {
	args = append(args, "toc")
	if t.HeaderText != "" {
		args = append(args, "--toc-header-text", t.HeaderText)
	}
	if t.DisableDottedLines {
		args = append(args, "--disable-dotted-lines")
	}
	if t.DisableLinks {
		args = append(args, "--disable-toc-links")
	}
	if t.XSLStyleSheet != "" {
		args = append(args, "--xsl-style-sheet", t.XSLStyleSheet)
	}
	return args, nil
}

// Role selects whether a PageMeta renders as a header or a footer.
type Role string

const (
	RoleHeader Role = "header"
	RoleFooter Role = "footer"
)

// PageMeta describes a header or footer repeated on every page.
//
// Content comes from, in order of precedence: inline HTML, an HTML file,
// or the three text slots. Text slots accept the renderer's substitution
// variables such as [page] and [topage].
type PageMeta struct {
	role Role

	HTML string // inline HTML, persisted to a temp file
	File string // path or URL of an HTML file

	Left   string
	Center string
	Right  string

	Line     bool
	Spacing  Override[float64] // millimeters between content and header/footer
	FontName string
	FontSize int // points; 0 = renderer default
}

// NewPageMeta returns empty metadata for role.
func NewPageMeta(role Role) *PageMeta {
	return &PageMeta{role: role}
}

// Role returns whether the metadata is a header or a footer.
func (m *PageMeta) Role() Role {
	return m.role
}

// IsZero reports whether no content or styling is configured.
func (m *PageMeta) IsZero() bool {
	return m.HTML == "" && m.File == "" &&
		m.Left == "" && m.Center == "" && m.Right == "" &&
		!m.Line && !m.Spacing.IsSet() && m.FontName == "" && m.FontSize == 0
}

func (m *PageMeta) appendArgs(args []string, env *buildEnv) ([]string, error) {
	prefix := "--" + string(m.role) + "-"

	switch {
	case m.HTML != "":
		path, err := env.store.Save([]byte(m.HTML))
		if err != nil {
			return nil, err
		}
		args = append(args, prefix+"html", path)
	case m.File != "":
		args = append(args, prefix+"html", m.File)
	default:
		if m.Left != "" {
			args = append(args, prefix+"left", m.Left)
		}
		if m.Center != "" {
			args = append(args, prefix+"center", m.Center)
		}
		if m.Right != "" {
			args = append(args, prefix+"right", m.Right)
		}
	}

	if m.Line {
		args = append(args, prefix+"line")
	}
	if spacing, ok := m.Spacing.Value(); ok {
		args = append(args, prefix+"spacing", formatFloat(spacing))
	}
	if m.FontName != "" {
		args = append(args, prefix+"font-name", m.FontName)
	}
	if m.FontSize > 0 {
		args = append(args, prefix+"font-size", strconv.Itoa(m.FontSize))
	}
	return args, nil
}

// formatFloat renders v without trailing zeros: 10 -> "10", 12.5 -> "12.5".
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
