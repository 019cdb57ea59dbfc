package fkb

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
)

// LoadOptions controls multi-file validation and error handling.
type LoadOptions struct {
	// Parallel enables concurrent file validation.
	Parallel bool

	// Workers is the number of files validated at once.
	// If 0, defaults to runtime.NumCPU(). Only used when Parallel is true.
	Workers int

	// SkipErrors continues past files that cannot be read.
	// When false, the first error stops the run and is returned alone.
	SkipErrors bool

	// Progress is called after each file, successful or not, with the
	// number of files processed so far.
	Progress func(done, total int)

	// ErrorLog receives one line per failed file.
	ErrorLog io.Writer

	// Parse is passed to the parser for every file.
	Parse ParseOptions
}

// DefaultLoadOptions returns load options with sensible defaults.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
	}
}

// ValidateFiles validates several files with one validator.
//
// Reports come back in the order of paths; files that failed are left
// out and their errors collected. Files that are not valid SOSI are not
// failures: they get an ERROR report (see ValidateFile).
func ValidateFiles(ctx context.Context, v *Validator, paths []string, opts LoadOptions) ([]*Report, []error) {
	if len(paths) == 0 {
		return []*Report{}, nil
	}
	if !opts.Parallel {
		return validateFilesSerial(ctx, v, paths, opts)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	type fileResult struct {
		index  int
		report *Report
		err    error
	}

	jobs := make(chan int, len(paths))
	results := make(chan fileResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				report, err := ValidateFile(ctx, v, paths[index], opts.Parse)
				results <- fileResult{index: index, report: report, err: err}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	byIndex := make(map[int]*Report, len(paths))
	var errs []error
	done := 0
	for result := range results {
		done++
		if opts.Progress != nil {
			opts.Progress(done, len(paths))
		}

		if result.err != nil {
			err := fmt.Errorf("%s: %w", paths[result.index], result.err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "Error validating file: %v\n", err)
			}
			if !opts.SkipErrors {
				// results is buffered, the remaining workers never block
				return nil, []error{err}
			}
			errs = append(errs, err)
			continue
		}
		byIndex[result.index] = result.report
	}

	reports := make([]*Report, 0, len(byIndex))
	for i := range paths {
		if r, ok := byIndex[i]; ok {
			reports = append(reports, r)
		}
	}
	return reports, errs
}

// validateFilesSerial validates files one at a time (Parallel=false)
func validateFilesSerial(ctx context.Context, v *Validator, paths []string, opts LoadOptions) ([]*Report, []error) {
	reports := make([]*Report, 0, len(paths))
	var errs []error

	for i, path := range paths {
		report, err := ValidateFile(ctx, v, path, opts.Parse)
		if opts.Progress != nil {
			opts.Progress(i+1, len(paths))
		}
		if err != nil {
			err := fmt.Errorf("%s: %w", path, err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "Error validating file: %v\n", err)
			}
			if !opts.SkipErrors {
				return nil, []error{err}
			}
			errs = append(errs, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, errs
}
