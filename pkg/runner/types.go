// Package runner applies a transform.Transformer to a whole directory tree:
// it discovers source files with doublestar globs, transforms them on a
// worker pool, caches results by content hash and, in watch mode,
// re-processes files as they change.
package runner

import (
	"fmt"
	"time"

	"github.com/gnana997/transform-imports/pkg/transform"
)

// Options configures a Runner.
type Options struct {
	// Include patterns (doublestar syntax, relative to the root, e.g. "src/**/*.ts").
	// Files must also have a supported extension.
	Include []string

	// Exclude patterns. A matching directory is skipped entirely.
	Exclude []string

	// Write rewrites changed files in place.
	Write bool

	// OutDir, when set, receives every processed file at its root-relative
	// path. Takes precedence over Write.
	OutDir string

	// Workers is the worker count. 0 uses util.GetOptimalPoolSize(), which
	// matches the parser pool size.
	Workers int

	// CacheSize bounds the result cache. 0 uses 1000; negative disables it.
	CacheSize int
}

// DefaultOptions returns the options used when the project file sets none.
func DefaultOptions() Options {
	return Options{
		Include: []string{
			"**/*.{js,jsx,mjs,cjs}",
			"**/*.{ts,tsx,mts,cts}",
		},
		Exclude: []string{
			"**/node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			"coverage/**",
			"out/**",
			".next/**",
		},
		CacheSize: 1000,
	}
}

// FileJob is a file waiting to be transformed.
type FileJob struct {
	FilePath string
	JobID    int
}

// FileResult is the outcome of processing one file.
type FileResult struct {
	FilePath string
	Result   *transform.Result

	// Output is the path written to, empty when nothing was written.
	Output string

	CacheHit bool
	JobID    int
}

// FileError is a failure while processing one file. It never stops the
// other files of a run.
type FileError struct {
	FilePath string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.FilePath, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// RunStats summarizes one Run.
type RunStats struct {
	// FilesDiscovered is the number of files matching the globs
	FilesDiscovered int

	// FilesChanged lists files whose imports were rewritten, sorted
	FilesChanged []string

	// FilesUnchanged is the number of files left as they were
	FilesUnchanged int

	// FilesWritten is the number of files written to disk
	FilesWritten int

	// FilesFailed is the number of files that could not be processed
	FilesFailed int

	// ImportsRewritten is the total number of import declarations replaced
	ImportsRewritten int

	// CacheHits is the number of files served from the result cache
	CacheHits int

	// WorkerCount is the number of workers used
	WorkerCount int

	// DurationMs is the wall time of the run
	DurationMs int64

	// Errors contains per-file errors (if any)
	Errors []*FileError

	// Cancelled indicates the context ended the run early
	Cancelled bool

	StartTime time.Time
	EndTime   time.Time
}

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Debounce groups rapid changes to one file into a single transform.
	// Default: 200ms
	Debounce time.Duration

	// OnResult, when set, is called after every debounced transform with
	// either a result or an error.
	OnResult func(*FileResult, error)
}

// DefaultWatchOptions returns recommended watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Debounce: 200 * time.Millisecond,
	}
}
