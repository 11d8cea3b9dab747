package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	wkpdf "github.com/alnah/go-wkpdf"
	"github.com/alnah/go-wkpdf/internal/config"
	"github.com/alnah/go-wkpdf/internal/fileutil"
	"github.com/alnah/go-wkpdf/internal/hints"
	"github.com/alnah/go-wkpdf/internal/pipeline"
)

// Sentinel errors for conversion.
var (
	ErrReadInput       = errors.New("failed to read input file")
	ErrCreateOutputDir = errors.New("failed to create output directory")
)

// File permission constants.
const dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute

// conversionParams groups what every Document of a run is built from.
type conversionParams struct {
	cfg      *config.Config
	settings wkpdf.Settings
	css      string
	markdown *pipeline.MarkdownConverter
	locator  *wkpdf.Locator
	logger   *slog.Logger
	timeout  time.Duration
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := validateWorkers(cfg.Workers); err != nil {
		return err
	}
	if flags.io.merge && !isPDFPath(flags.io.output) {
		return ErrMergeOutput
	}

	settings, err := buildSettings(cfg)
	if err != nil {
		return err
	}

	css, err := resolveCSS(cfg, flags.style.noStyle)
	if err != nil {
		return err
	}

	if cfg.TempDir != "" {
		if err := fileutil.CheckWritableDir(cfg.TempDir); err != nil {
			return err
		}
	}

	outputDir := flags.io.output
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}
	files, err := discoverInputs(inputs, outputDir)
	if err != nil {
		return err
	}

	params := &conversionParams{
		cfg:      cfg,
		settings: settings,
		css:      css,
		markdown: pipeline.NewMarkdownConverter(),
		locator:  newLocator(cfg.Executable),
		logger:   newLogger(env.Stderr, flags.common.verbose),
		timeout:  cfg.TimeoutDuration(),
	}

	switch {
	case flags.io.printCommand:
		return printCommands(ctx, files, flags.io.merge, params, env.Stdout)
	case flags.io.merge:
		return convertMerged(ctx, files, flags.io.output, params, flags.common.quiet, env)
	}

	workers := wkpdf.ResolveWorkers(cfg.Workers)
	params.logger.Debug("starting conversion", slog.Int("files", len(files)), slog.Int("workers", workers))

	results := convertBatch(ctx, files, workers, params)
	return printResults(results, flags.common.quiet, flags.common.verbose, env)
}

// newDocument builds a Document with the configured cover, TOC, header and
// footer, followed by one page per input. The PDF title falls back to the
// first input's <title> or <h1>.
func (p *conversionParams) newDocument(ctx context.Context, inputs []inputFile) (*wkpdf.Document, error) {
	opts := []wkpdf.Option{
		wkpdf.WithSettings(p.settings),
		wkpdf.WithLocator(p.locator),
		wkpdf.WithLogger(p.logger),
	}
	if p.timeout > 0 {
		opts = append(opts, wkpdf.WithTimeout(p.timeout))
	}
	doc := wkpdf.NewDocument(p.cfg.TempDir, opts...)

	if cover := p.cfg.Cover.File; cover != "" {
		if _, err := p.addPage(ctx, doc, cover, fileutil.KindOf(cover), true); err != nil {
			return nil, fmt.Errorf("cover: %w", err)
		}
	}

	if p.cfg.TOC.Enabled {
		applyTOC(doc.AddTOC(p.cfg.TOC.HeaderText), p.cfg.TOC)
	}

	for _, in := range inputs {
		title, err := p.addPage(ctx, doc, in.Path, in.Kind, false)
		if err != nil {
			return nil, err
		}
		if doc.Title == "" {
			doc.Title = title
		}
	}

	if !p.cfg.Header.IsZero() {
		applyMeta(doc.Header(), p.cfg.Header)
	}
	if !p.cfg.Footer.IsZero() {
		applyMeta(doc.Footer(), p.cfg.Footer)
	}

	return doc, nil
}

// addPage adds one input to doc and returns its title, if any.
// Markdown is rendered to inline HTML whose images are file:// URLs, so
// those pages get local file access.
func (p *conversionParams) addPage(ctx context.Context, doc *wkpdf.Document, path string, kind fileutil.InputKind, cover bool) (string, error) {
	switch kind {
	case fileutil.KindMarkdown:
		content, err := os.ReadFile(path) // #nosec G304 -- user-provided input
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		html, err := p.markdown.Convert(ctx, pipeline.MarkdownInput{
			Content:   string(content),
			SourceDir: filepath.Dir(path),
			CSS:       p.css,
		})
		if err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
		page := doc.AddHTML(html, cover)
		page.EnableLocalFileAccess = wkpdf.Set(true)
		return pipeline.ExtractTitle(html), nil

	case fileutil.KindHTML:
		doc.AddFile(path, cover)
		if fileutil.IsURL(path) || doc.Title != "" {
			return "", nil
		}
		content, err := os.ReadFile(path) // #nosec G304 -- user-provided input
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		return pipeline.ExtractTitle(string(content)), nil

	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidExtension, path)
	}
}

// convertMerged renders every input into the single PDF at output.
func convertMerged(ctx context.Context, files []inputFile, output string, p *conversionParams, quiet bool, env *Environment) error {
	start := env.Now()

	doc, err := p.newDocument(ctx, files)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), dirPermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateOutputDir, err)
	}
	if err := doc.Save(ctx, output); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(env.Stdout, "Created %s from %d input(s) (%v)\n", output, len(files), env.Now().Sub(start).Round(time.Millisecond))
	}
	return nil
}

// printCommands prints the renderer command line for each output without
// running it. Temp pages referenced by the command are removed afterwards.
func printCommands(ctx context.Context, files []inputFile, merged bool, p *conversionParams, w io.Writer) error {
	groups := [][]inputFile{files}
	if !merged {
		groups = groups[:0]
		for _, f := range files {
			groups = append(groups, []inputFile{f})
		}
	}

	for _, g := range groups {
		doc, err := p.newDocument(ctx, g)
		if err != nil {
			return err
		}
		cmd, err := doc.Command(ctx)
		doc.Cleanup()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, cmd.String())
	}
	return nil
}

// describeError renders err with a hint for the failures users can fix.
func describeError(err error) string {
	msg := err.Error()

	var execErr *wkpdf.ExecError
	switch {
	case errors.Is(err, wkpdf.ErrExecutableNotFound):
		msg += hints.ForExecutableNotFound()
	case errors.As(err, &execErr):
		msg += hints.ForConversion(execErr.Stderr)
	case errors.Is(err, wkpdf.ErrTimeout):
		msg += hints.ForTimeout()
	case errors.Is(err, wkpdf.ErrTempFile), errors.Is(err, fileutil.ErrNotWritable):
		msg += hints.ForTempDirectory()
	case errors.Is(err, ErrCreateOutputDir):
		msg += hints.ForOutputDirectory()
	}
	return msg
}
