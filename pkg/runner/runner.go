package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gnana997/transform-imports/pkg/transform"
	"github.com/gnana997/transform-imports/pkg/util"
)

// Runner transforms every matching file under a root directory.
//
// Three-phase pipeline:
//  1. Discovery - walk the root and match include/exclude globs
//  2. Parallel processing - read, transform and emit on a worker pool
//  3. Aggregation - collect per-file results and errors into RunStats
//
// Usage:
//
//	r, err := runner.New(transformer, opts, logger)
//	if err != nil {
//	    return err
//	}
//	stats, err := r.Run(ctx, "./src")
type Runner struct {
	transformer *transform.Transformer
	matcher     *Matcher
	cache       *ResultCache
	options     Options
	logger      *slog.Logger
}

// New creates a Runner.
func New(transformer *transform.Transformer, options Options, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	matcher, err := NewMatcher(options.Include, options.Exclude)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		transformer: transformer,
		matcher:     matcher,
		options:     options,
		logger:      logger,
	}

	if options.CacheSize >= 0 {
		size := options.CacheSize
		if size == 0 {
			size = 1000
		}
		cache, err := NewResultCache(size)
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		r.cache = cache
	}

	return r, nil
}

// Matcher returns the runner's include/exclude matcher.
func (r *Runner) Matcher() *Matcher {
	return r.matcher
}

// Cache returns the result cache, or nil when caching is disabled.
func (r *Runner) Cache() *ResultCache {
	return r.cache
}

// Run processes every matching file under root.
//
// Per-file failures are collected in RunStats.Errors and never stop the
// run. The returned error is non-nil only when discovery fails or ctx ends
// the run, in which case the partial stats are still returned.
func (r *Runner) Run(ctx context.Context, root string) (*RunStats, error) {
	startTime := time.Now()
	stats := &RunStats{StartTime: startTime}

	files, err := Discover(root, r.matcher, r.logger)
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)

	r.logger.Info("file discovery complete",
		"root", root,
		"files_found", len(files))

	if len(files) > 0 {
		err = r.processFilesParallel(ctx, root, files, stats)
	}

	sort.Strings(stats.FilesChanged)
	sort.Slice(stats.Errors, func(i, j int) bool {
		return stats.Errors[i].FilePath < stats.Errors[j].FilePath
	})
	stats.EndTime = time.Now()
	stats.DurationMs = stats.EndTime.Sub(startTime).Milliseconds()

	r.logger.Info("run complete",
		"files_changed", len(stats.FilesChanged),
		"files_failed", stats.FilesFailed,
		"imports_rewritten", stats.ImportsRewritten,
		"duration_ms", stats.DurationMs)

	return stats, err
}

func (r *Runner) processFilesParallel(ctx context.Context, root string, files []string, stats *RunStats) error {
	total := len(files)

	pool := NewWorkerPool(ctx, r.options.Workers, func(job FileJob) (*FileResult, error) {
		return r.ProcessFile(root, job.FilePath)
	}, r.logger)
	stats.WorkerCount = pool.Stats().NumWorkers
	pool.Start()
	defer pool.Stop()

	// The collector must run before submission starts, otherwise a full
	// jobs channel blocks the submit loop forever.
	done := make(chan struct{})
	go func() {
		defer close(done)

		for processed := 0; processed < total; processed++ {
			select {
			case <-ctx.Done():
				return

			case result := <-pool.Results():
				stats.record(result)

			case fileErr := <-pool.Errors():
				stats.FilesFailed++
				stats.Errors = append(stats.Errors, fileErr)
				r.logger.Warn("file processing failed",
					"file", fileErr.FilePath,
					"error", fileErr.Err)
			}
		}
	}()

	var submitErr error
	for i, file := range files {
		if err := pool.Submit(FileJob{FilePath: file, JobID: i}); err != nil {
			submitErr = err
			break
		}
	}
	pool.FinishSubmitting()

	<-done

	if ctx.Err() != nil {
		stats.Cancelled = true
		return ctx.Err()
	}
	return submitErr
}

func (s *RunStats) record(result *FileResult) {
	if result.Result.Changed {
		s.FilesChanged = append(s.FilesChanged, result.FilePath)
	} else {
		s.FilesUnchanged++
	}
	if result.Output != "" {
		s.FilesWritten++
	}
	if result.CacheHit {
		s.CacheHits++
	}
	s.ImportsRewritten += result.Result.ImportsRewritten
}

// ProcessFile reads, transforms and emits one file under root.
func (r *Runner) ProcessFile(root, filePath string) (*FileResult, error) {
	content, err := util.ReadSource(filePath)
	if err != nil {
		return nil, &FileError{FilePath: filePath, Err: fmt.Errorf("failed to read file: %w", err)}
	}

	out := &FileResult{FilePath: filePath}
	if r.cache != nil {
		out.Result, out.CacheHit = r.cache.Get(filePath, content)
	}

	if !out.CacheHit {
		result, err := r.transformer.TransformFile(filePath, content)
		if err != nil {
			return nil, &FileError{FilePath: filePath, Err: err}
		}
		out.Result = result
		if r.cache != nil {
			r.cache.Add(filePath, content, result)
		}
	}

	output, err := r.emit(root, filePath, out.Result)
	if err != nil {
		return nil, &FileError{FilePath: filePath, Err: err}
	}
	out.Output = output

	return out, nil
}

// emit writes the result according to the options and returns the path
// written, if any.
func (r *Runner) emit(root, filePath string, result *transform.Result) (string, error) {
	switch {
	case r.options.OutDir != "":
		rel, err := filepath.Rel(root, filePath)
		if err != nil {
			return "", fmt.Errorf("failed to resolve output path: %w", err)
		}
		dest := filepath.Join(r.options.OutDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(dest, result.Code, 0o644); err != nil {
			return "", fmt.Errorf("failed to write output: %w", err)
		}
		return dest, nil

	case r.options.Write && result.Changed:
		info, err := os.Stat(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to stat file: %w", err)
		}
		if err := os.WriteFile(filePath, result.Code, info.Mode().Perm()); err != nil {
			return "", fmt.Errorf("failed to write file: %w", err)
		}
		r.logger.Info("rewrote file",
			"file", filePath,
			"imports_rewritten", result.ImportsRewritten)
		return filePath, nil
	}

	return "", nil
}
