package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// batchError reports failed conversions of a batch. It unwraps to the first
// failure so the exit code reflects its cause.
type batchError struct {
	failed int
	first  error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d conversion(s) failed", e.failed)
}

func (e *batchError) Unwrap() error {
	return e.first
}

// convertBatch converts files with up to workers renderer processes at once.
// Results keep the order of files.
func convertBatch(ctx context.Context, files []inputFile, workers int, p *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(workers, len(files))
	results := make([]ConversionResult, len(files))
	jobs := make(chan int, len(files))

	var wg sync.WaitGroup
	for range concurrency {
		wg.Go(func() {
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = ConversionResult{InputPath: files[idx].Path, Err: err}
					continue
				}
				results[idx] = convertFile(ctx, files[idx], p)
			}
		})
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile converts a single input into its own PDF.
func convertFile(ctx context.Context, f inputFile, p *conversionParams) (result ConversionResult) {
	start := time.Now()
	result = ConversionResult{
		InputPath:  f.Path,
		OutputPath: f.OutputPath,
	}
	defer func() { result.Duration = time.Since(start) }()

	doc, err := p.newDocument(ctx, []inputFile{f})
	if err != nil {
		result.Err = err
		return result
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrCreateOutputDir, err)
		return result
	}

	result.Err = doc.Save(ctx, f.OutputPath)
	return result
}

// printResults reports each result and returns a *batchError if any failed.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) error {
	var failed []error

	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Err)
			fmt.Fprintf(env.Stderr, "FAILED %s: %s\n", r.InputPath, describeError(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-len(failed), len(failed))
	}

	if len(failed) > 0 {
		return &batchError{failed: len(failed), first: failed[0]}
	}
	return nil
}
