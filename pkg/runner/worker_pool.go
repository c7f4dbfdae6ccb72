package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/transform-imports/pkg/util"
)

// JobHandler processes one job. It runs on a worker goroutine.
type JobHandler func(job FileJob) (*FileResult, error)

// WorkerPool runs a fixed number of goroutines over a job channel.
//
// Usage:
//
//	pool := NewWorkerPool(ctx, numWorkers, handler, logger)
//	pool.Start()
//	defer pool.Stop()
//
//	// Start collecting from Results() and Errors() first, then submit
//	for _, file := range files {
//	    pool.Submit(FileJob{FilePath: file})
//	}
//	pool.FinishSubmitting()
//
// Worker count MUST match the parser pool size, otherwise workers block
// waiting for parsers.
type WorkerPool struct {
	numWorkers int
	jobs       chan FileJob
	results    chan *FileResult
	errors     chan *FileError
	wg         sync.WaitGroup
	handler    JobHandler
	logger     *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool creates a worker pool bound to ctx. numWorkers of 0 uses
// util.GetOptimalPoolSize().
func NewWorkerPool(ctx context.Context, numWorkers int, handler JobHandler, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}
	numWorkers = util.GetOptimalPoolSizeWithOverride(numWorkers)

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan FileJob, numWorkers*2),
		results:    make(chan *FileResult, numWorkers),
		errors:     make(chan *FileError, numWorkers),
		handler:    handler,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns all worker goroutines. Must be called before Submit.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("worker pool already started")
		return
	}

	wp.logger.Debug("starting worker pool", "workers", wp.numWorkers)

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			wp.logger.Debug("worker cancelled", "worker_id", id)
			return

		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

// processJob runs the handler and delivers its outcome unless the pool is
// cancelled first.
func (wp *WorkerPool) processJob(workerID int, job FileJob) {
	result, err := wp.handler(job)
	if err != nil {
		wp.jobsFailed.Add(1)
		wp.logger.Debug("job failed", "worker_id", workerID, "file", job.FilePath, "error", err)

		var fileErr *FileError
		if !errors.As(err, &fileErr) {
			fileErr = &FileError{FilePath: job.FilePath, Err: err}
		}
		select {
		case wp.errors <- fileErr:
		case <-wp.ctx.Done():
		}
		return
	}

	wp.jobsProcessed.Add(1)
	result.JobID = job.JobID
	select {
	case wp.results <- result:
	case <-wp.ctx.Done():
	}
}

// Submit enqueues a job. It blocks while the queue is full.
func (wp *WorkerPool) Submit(job FileJob) error {
	if wp.stopped.Load() {
		return fmt.Errorf("worker pool is stopped")
	}

	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled: %w", wp.ctx.Err())
	case wp.jobs <- job:
		wp.jobsSubmitted.Add(1)
		return nil
	}
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan *FileResult {
	return wp.results
}

// Errors returns the errors channel.
func (wp *WorkerPool) Errors() <-chan *FileError {
	return wp.errors
}

// FinishSubmitting closes the jobs channel so workers exit once it is
// drained. Safe to call multiple times.
func (wp *WorkerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
		wp.logger.Debug("jobs channel closed", "total_submitted", wp.jobsSubmitted.Load())
	}
}

// Stop closes the job queue, cancels in-flight deliveries, waits for the
// workers and closes the result channels. Safe to call multiple times.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}

	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}

	wp.cancel()
	wp.wg.Wait()

	close(wp.results)
	close(wp.errors)

	wp.logger.Debug("worker pool stopped",
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load(),
		"jobs_failed", wp.jobsFailed.Load())
}

// Stats returns current worker pool statistics.
func (wp *WorkerPool) Stats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.numWorkers,
		JobsSubmitted: wp.jobsSubmitted.Load(),
		JobsProcessed: wp.jobsProcessed.Load(),
		JobsFailed:    wp.jobsFailed.Load(),
		QueueLength:   len(wp.jobs),
	}
}

// WorkerPoolStats contains statistics about the worker pool.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
	QueueLength   int // Current jobs in queue
}
