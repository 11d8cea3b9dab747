package wkpdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
)

const outputFilePerm = 0o644

// Document collects settings and parts and converts them to PDF by running
// the renderer once per conversion.
//
// A Document is not meant for concurrent use. A conversion started while
// another one is running on the same Document fails with
// ErrConversionInFlight.
type Document struct {
	Settings

	parts  []Part
	header *PageMeta
	footer *PageMeta

	fs      afero.Fs
	store   *TempStore
	locator *Locator
	runner  runner
	logger  *slog.Logger
	timeout time.Duration

	inFlight atomic.Bool
}

// NewDocument returns a Document writing temp files to tmpDir
// (os.TempDir() when empty) and starting from DefaultSettings.
func NewDocument(tmpDir string, opts ...Option) *Document {
	d := &Document{
		Settings: DefaultSettings(),
		fs:       afero.NewOsFs(),
		locator:  DefaultLocator,
		logger:   slog.New(slog.DiscardHandler),
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.store = NewTempStore(d.fs, tmpDir)
	if d.runner == nil {
		d.runner = &execRunner{logger: d.logger}
	}
	return d
}

// withRunner replaces the process runner.
func withRunner(r runner) Option {
	return func(d *Document) {
		d.runner = r
	}
}

// AddHTML appends a page rendered from inline HTML and returns it so
// per-page overrides can be set.
func (d *Document) AddHTML(html string, cover bool) *HTMLPage {
	p := &HTMLPage{PageOptions: PageOptions{Cover: cover}, HTML: html}
	d.parts = append(d.parts, p)
	return p
}

// AddFile appends a page read from a file path or URL.
func (d *Document) AddFile(path string, cover bool) *FilePage {
	p := &FilePage{PageOptions: PageOptions{Cover: cover}, Path: path}
	d.parts = append(d.parts, p)
	return p
}

// AddTOC appends a table of contents. An empty header keeps the renderer's
// default title.
func (d *Document) AddTOC(header string) *TOC {
	t := &TOC{HeaderText: header}
	d.parts = append(d.parts, t)
	return t
}

// AddPart appends p. A *PageMeta replaces the header or footer matching its
// role instead of being appended. Nil parts are ignored.
func (d *Document) AddPart(p Part) {
	switch v := p.(type) {
	case nil:
		return
	case *PageMeta:
		if v == nil {
			return
		}
		if v.role == RoleFooter {
			d.footer = v
		} else {
			v.role = RoleHeader
			d.header = v
		}
	default:
		d.parts = append(d.parts, p)
	}
}

// Parts returns the parts in insertion order.
func (d *Document) Parts() []Part {
	out := make([]Part, len(d.parts))
	copy(out, d.parts)
	return out
}

// Header returns the page header, creating it on first call.
func (d *Document) Header() *PageMeta {
	if d.header == nil {
		d.header = NewPageMeta(RoleHeader)
	}
	return d.header
}

// Footer returns the page footer, creating it on first call.
func (d *Document) Footer() *PageMeta {
	if d.footer == nil {
		d.footer = NewPageMeta(RoleFooter)
	}
	return d.footer
}

// Validate checks the settings and that at least one part was added.
func (d *Document) Validate() error {
	if err := d.Settings.Validate(); err != nil {
		return err
	}
	if len(d.parts) == 0 {
		return ErrNoParts
	}
	return nil
}

// Command builds the renderer invocation without running it. Inline HTML is
// written to temp files that stay on disk until Cleanup is called.
func (d *Document) Command(ctx context.Context) (Command, error) {
	if err := d.Validate(); err != nil {
		return Command{}, err
	}
	exe, err := d.resolve(ctx)
	if err != nil {
		return Command{}, err
	}
	return d.buildCommand(exe)
}

// Cleanup removes the temp files created for this document.
func (d *Document) Cleanup() {
	n := len(d.store.Paths())
	d.store.Cleanup()
	if n > 0 {
		d.logger.Debug("removed temp files", slog.Int("count", n), slog.String("dir", d.store.Dir()))
	}
}

// Save converts the document into a PDF file at path. On failure the
// partially written file is removed.
func (d *Document) Save(ctx context.Context, path string) (err error) {
	if err := d.begin(); err != nil {
		return err
	}
	defer d.end()

	if err := d.Validate(); err != nil {
		return err
	}

	f, err := d.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outputFilePerm)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWriteOutput, cerr)
		}
		if err != nil {
			_ = d.fs.Remove(path)
		}
	}()

	return d.convert(ctx, f)
}

// Bytes converts the document and returns the PDF in memory.
func (d *Document) Bytes(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write converts the document, streaming the PDF into w.
func (d *Document) Write(ctx context.Context, w io.Writer) error {
	if err := d.begin(); err != nil {
		return err
	}
	defer d.end()

	if err := d.Validate(); err != nil {
		return err
	}
	return d.convert(ctx, w)
}

func (d *Document) begin() error {
	if !d.inFlight.CompareAndSwap(false, true) {
		return ErrConversionInFlight
	}
	return nil
}

func (d *Document) end() {
	d.inFlight.Store(false)
}

// convert runs one conversion. Temp files are removed whatever the outcome.
func (d *Document) convert(ctx context.Context, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	defer d.Cleanup()

	exe, err := d.resolve(ctx)
	if err != nil {
		return err
	}

	cmd, err := d.buildCommand(exe)
	if err != nil {
		return err
	}

	d.logger.Debug("running renderer", slog.String("command", cmd.String()))
	start := time.Now()

	err = d.runner.Run(ctx, cmd, w)
	if errors.Is(err, ErrTimeout) {
		err = fmt.Errorf("%w (limit %s)", err, d.timeout)
	}
	if err != nil {
		d.logger.Debug("conversion failed", slog.Duration("elapsed", time.Since(start)), slog.Any("error", err))
		return err
	}

	d.logger.Debug("conversion finished", slog.Duration("elapsed", time.Since(start)))
	return nil
}

func (d *Document) resolve(ctx context.Context) (string, error) {
	exe, err := d.locator.Resolve(ctx)
	if err != nil {
		return "", err
	}
	d.logger.Debug("resolved executable", slog.String("path", exe), slog.String("version", d.locator.Version()))
	return exe, nil
}
