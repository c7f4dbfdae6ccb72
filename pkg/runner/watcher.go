package runner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-transforms files under a root as they change.
//
// Features:
//   - Debouncing - rapid events for one file trigger a single transform
//   - Selective - only files accepted by the runner's Matcher are processed
//   - New directories are watched as they appear
//
// Usage:
//
//	w, err := runner.NewWatcher(r, root, runner.DefaultWatchOptions(), logger)
//	if err != nil {
//	    return err
//	}
//	err = w.Run(ctx) // blocks until ctx is done
//
// Files rewritten in place produce a Write event of their own; the second
// pass finds nothing left to rewrite and writes nothing.
type Watcher struct {
	watcher *fsnotify.Watcher
	runner  *Runner
	root    string
	options WatchOptions
	logger  *slog.Logger

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex
	pending        sync.WaitGroup
}

// NewWatcher creates a watcher for root.
func NewWatcher(runner *Runner, root string, options WatchOptions, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultWatchOptions().Debounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:        watcher,
		runner:         runner,
		root:           root,
		options:        options,
		logger:         logger,
		debounceTimers: make(map[string]*time.Timer),
	}, nil
}

// Run watches until ctx is done, then stops pending transforms and closes
// the underlying fsnotify watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	if err := w.addTree(w.root); err != nil {
		return err
	}

	w.logger.Info("file watcher started", "root", w.root)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// addTree watches dir and every non-excluded directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		if rel, ok := relSlash(w.root, path); ok && rel != "." && w.runner.matcher.Excluded(rel) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	filePath := event.Name
	rel, ok := relSlash(w.root, filePath)
	if !ok {
		return
	}

	w.logger.Debug("file event", "op", event.Op.String(), "file", filePath)

	switch {
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		if isDir(filePath) {
			if event.Has(fsnotify.Create) && !w.runner.matcher.Excluded(rel) {
				if err := w.addTree(filePath); err != nil {
					w.logger.Warn("failed to watch new directory", "path", filePath, "error", err)
				}
			}
			return
		}
		if w.runner.matcher.Matches(rel) {
			w.debounce(filePath)
		}

	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if w.runner.cache != nil {
			w.runner.cache.Remove(filePath)
		}
	}
}

// debounce schedules a transform of filePath after the debounce delay,
// replacing any transform already scheduled for it.
func (w *Watcher) debounce(filePath string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[filePath]; exists {
		if timer.Stop() {
			w.pending.Done()
		}
	}

	w.pending.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.options.Debounce, func() {
		defer w.pending.Done()

		w.debounceMu.Lock()
		if w.debounceTimers[filePath] == timer {
			delete(w.debounceTimers, filePath)
		}
		w.debounceMu.Unlock()

		w.process(filePath)
	})
	w.debounceTimers[filePath] = timer
}

func (w *Watcher) process(filePath string) {
	result, err := w.runner.ProcessFile(w.root, filePath)
	if err != nil {
		w.logger.Warn("failed to transform file", "file", filePath, "error", err)
	} else {
		w.logger.Debug("file transformed",
			"file", filePath,
			"changed", result.Result.Changed,
			"cache_hit", result.CacheHit)
	}

	if w.options.OnResult != nil {
		w.options.OnResult(result, err)
	}
}

// close cancels scheduled transforms, waits for running ones and closes
// the fsnotify watcher.
func (w *Watcher) close() {
	w.debounceMu.Lock()
	for path, timer := range w.debounceTimers {
		if timer.Stop() {
			w.pending.Done()
		}
		delete(w.debounceTimers, path)
	}
	w.debounceMu.Unlock()

	w.pending.Wait()

	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("failed to close file watcher", "error", err)
	}
}

// PendingCount returns the number of scheduled transforms.
func (w *Watcher) PendingCount() int {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	return len(w.debounceTimers)
}
