package orchestrator

import (
	"context"
	"log/slog"
	"sync"
)

// Poller executes a single Job and returns its decoded Result.
type Poller interface {
	Poll(ctx context.Context, job Job) (Result, error)
}

// WorkerPool fans jobs out to a fixed number of goroutines and collects
// results onto a shared output channel.
type WorkerPool struct {
	numWorkers int
	poller     Poller
	output     chan<- Result
	logger     *slog.Logger

	jobs chan Job
	wg   sync.WaitGroup
}

// NewWorkerPool creates a pool of numWorkers goroutines executing jobs with
// poller and sending results to output.
func NewWorkerPool(numWorkers int, poller Poller, output chan<- Result, logger *slog.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 16
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		poller:     poller,
		output:     output,
		logger:     logger,
		jobs:       make(chan Job, numWorkers*2),
	}
}

// Start launches the worker goroutines. They run until ctx is cancelled or
// Stop is called.
func (w *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < w.numWorkers; i++ {
		w.wg.Add(1)
		go w.worker(ctx)
	}
}

// Submit enqueues a job, blocking if the job channel is full.
func (w *WorkerPool) Submit(job Job) {
	w.jobs <- job
}

// TrySubmit enqueues a job without blocking, returning false if the channel
// is full so the caller can skip this cycle rather than pile up backlog.
func (w *WorkerPool) TrySubmit(job Job) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		return false
	}
}

// Stop closes the job channel and waits for all workers to drain in-flight
// jobs.
func (w *WorkerPool) Stop() {
	close(w.jobs)
	w.wg.Wait()
}

func (w *WorkerPool) worker(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case job, ok := <-w.jobs:
			if !ok {
				return
			}
			result, err := w.poller.Poll(ctx, job)
			if err != nil {
				w.logger.Warn("poll failed",
					"device_id", job.Device.DeviceID,
					"device", job.Device.Name,
					"tier", job.Tier,
					"error", err.Error(),
				)
			}
			select {
			case w.output <- result:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
