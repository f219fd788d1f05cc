package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	docmodel "github.com/alnah/go-docmodel"
	"github.com/alnah/go-docmodel/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrReadMarkdown     = errors.New("failed to read markdown file")
	ErrReadBibliography = errors.New("failed to read bibliography file")
	ErrWriteReport      = errors.New("failed to write report file")
	ErrPoolDrained      = errors.New("converter pool closed before checking finished")
)

// Checker is the interface for the document checking service.
type Checker interface {
	Convert(ctx context.Context, req docmodel.Request) (*docmodel.ConvertResult, error)
}

// Compile-time interface implementation checks.
var (
	_ Checker = (*docmodel.Converter)(nil)
	_ Checker = (*docmodel.Service)(nil)
)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() *docmodel.Converter
	Release(*docmodel.Converter)
	Size() int
}

// Compile-time interface implementation check.
var _ Pool = (*docmodel.ConverterPool)(nil)

// CheckResult holds the outcome of checking a single file.
type CheckResult struct {
	Path       string
	ReportPath string
	Outcome    *docmodel.ConvertResult
	Err        error
	Duration   time.Duration
}

// checkParams groups parameters shared across the batch.
type checkParams struct {
	opts   *docmodel.Options
	format docmodel.Format
}

// checkBatch processes files concurrently using the converter pool.
func checkBatch(ctx context.Context, pool Pool, files []FileToCheck, params *checkParams) []CheckResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]CheckResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv := pool.Acquire()
			if conv == nil {
				// Pool was closed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = CheckResult{
						Path: files[idx].Path,
						Err:  ErrPoolDrained,
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = CheckResult{
						Path: files[idx].Path,
						Err:  ctx.Err(),
					}
					continue
				}
				results[idx] = checkFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// checkFile processes a single file and returns the result.
func checkFile(ctx context.Context, checker Checker, f FileToCheck, params *checkParams) CheckResult {
	start := time.Now()
	result := CheckResult{
		Path:       f.Path,
		ReportPath: f.ReportPath,
	}

	content, err := os.ReadFile(f.Path) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		result.Duration = time.Since(start)
		return result
	}

	outcome, err := checker.Convert(ctx, docmodel.Request{
		ID:      f.Path,
		Source:  string(content),
		Format:  params.format,
		Options: params.opts,
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	result.Outcome = outcome
	result.Duration = time.Since(start)

	if f.ReportPath != "" {
		if err := writeReport(f.ReportPath, &result); err != nil {
			result.Err = err
		}
	}

	return result
}

// writeReport serializes one document report to its JSON file.
func writeReport(path string, result *CheckResult) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("creating report directory: %w%s", err, hints.ForOutputDirectory())
	}

	data, err := marshalDocumentReport(result)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteReport, err)
	}

	// #nosec G306 -- reports are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteReport, err)
	}
	return nil
}

// ResultSummary tallies batch outcomes by kind.
type ResultSummary struct {
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Warned  int `json:"warned"`
	Failed  int `json:"failed"`
}

// countResults tallies the batch. Warned counts valid documents that
// carry at least one warning; they are included in Valid as well.
func countResults(results []CheckResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case !r.Outcome.Validation.Valid:
			summary.Invalid++
		default:
			summary.Valid++
			if len(r.Outcome.Validation.Warnings) > 0 {
				summary.Warned++
			}
		}
	}
	return summary
}
