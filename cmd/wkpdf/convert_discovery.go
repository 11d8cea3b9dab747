package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	wkpdf "github.com/alnah/go-wkpdf"
	"github.com/alnah/go-wkpdf/internal/fileutil"
)

// Sentinel errors for input discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoInputsFound      = errors.New("no HTML or Markdown files found")
	ErrInvalidExtension   = errors.New("input must be .html, .htm, .xhtml, .md or .markdown")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrMergeOutput        = errors.New("--merge needs -o with a .pdf file")
)

// inputFile is one input to convert and where its PDF goes.
type inputFile struct {
	Path       string
	Kind       fileutil.InputKind
	OutputPath string
}

// discoverInputs expands args (files, directories, URLs) into inputs, in
// argument order. Directories are walked for HTML and Markdown files.
func discoverInputs(args []string, outputDir string) ([]inputFile, error) {
	if len(args) == 0 {
		return nil, ErrNoInput
	}

	var files []inputFile
	for _, arg := range args {
		found, err := discoverInput(arg, outputDir)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputsFound, strings.Join(args, ", "))
	}
	return files, nil
}

func discoverInput(input, outputDir string) ([]inputFile, error) {
	if fileutil.IsURL(input) {
		return []inputFile{{
			Path:       input,
			Kind:       fileutil.KindHTML,
			OutputPath: resolveURLOutputPath(input, outputDir),
		}}, nil
	}

	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		kind := fileutil.KindOf(input)
		if kind == fileutil.KindUnknown {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(input))
		}
		return []inputFile{{
			Path:       input,
			Kind:       kind,
			OutputPath: resolveOutputPath(input, outputDir, ""),
		}}, nil
	}

	var files []inputFile
	err = filepath.WalkDir(input, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", p, err)
		}
		if d.IsDir() {
			return nil
		}
		kind := fileutil.KindOf(p)
		if kind == fileutil.KindUnknown {
			return nil
		}
		files = append(files, inputFile{
			Path:       p,
			Kind:       kind,
			OutputPath: resolveOutputPath(p, outputDir, input),
		})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the PDF output path for an input file.
// Inputs found under baseInputDir keep their relative layout in outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".pdf")
	}

	if isPDFPath(outputDir) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base+".pdf")
		}
	}

	return filepath.Join(outputDir, base+".pdf")
}

// resolveURLOutputPath names the PDF after the last path segment of the
// URL, or its host for bare domains.
func resolveURLOutputPath(rawURL, outputDir string) string {
	if isPDFPath(outputDir) {
		return outputDir
	}

	name := "page"
	if u, err := url.Parse(rawURL); err == nil {
		base := path.Base(u.Path)
		switch {
		case base != "" && base != "/" && base != ".":
			name = strings.TrimSuffix(base, path.Ext(base))
		case u.Hostname() != "":
			name = u.Hostname()
		}
	}

	if outputDir == "" {
		outputDir = "."
	}
	return filepath.Join(outputDir, name+".pdf")
}

func isPDFPath(p string) bool {
	return strings.HasSuffix(strings.ToLower(p), ".pdf")
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > wkpdf.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, wkpdf.MaxWorkers)
	}
	return nil
}
