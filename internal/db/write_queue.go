package db

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrQueueFull is returned by Enqueue when every slot is taken.
	ErrQueueFull = errors.New("write queue full")
	// ErrQueueClosed is returned by Enqueue after Run has returned.
	ErrQueueClosed = errors.New("write queue closed")
)

// DefaultJobTimeout bounds a single write.
const DefaultJobTimeout = 5 * time.Second

type writeJob struct {
	work func(ctx context.Context) error
	then func(err error)
}

// WriteQueue runs storage writes on a fixed set of workers so callers on
// the hot path never wait on the database. Enqueue never blocks; a full
// queue rejects the write.
type WriteQueue struct {
	jobs       chan writeJob
	workers    int
	jobTimeout time.Duration

	mu     sync.RWMutex // guards closed against sends on a closed channel
	closed bool
}

// NewWriteQueue creates a queue holding up to size pending writes.
func NewWriteQueue(size, workers int, jobTimeout time.Duration) *WriteQueue {
	if size <= 0 {
		panic("NewWriteQueue: size must be positive")
	}
	if workers <= 0 {
		panic("NewWriteQueue: workers must be positive")
	}
	if jobTimeout <= 0 {
		jobTimeout = DefaultJobTimeout
	}
	return &WriteQueue{
		jobs:       make(chan writeJob, size),
		workers:    workers,
		jobTimeout: jobTimeout,
	}
}

// Enqueue schedules work. then (may be nil) receives the outcome on the
// worker goroutine.
func (q *WriteQueue) Enqueue(work func(ctx context.Context) error, then func(err error)) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- writeJob{work: work, then: then}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len returns the number of writes waiting for a worker.
func (q *WriteQueue) Len() int {
	return len(q.jobs)
}

// Run starts the workers and blocks until ctx is cancelled. Writes already
// queued are drained before Run returns.
func (q *WriteQueue) Run(ctx context.Context) error {
	slog.Info("write queue started", "workers", q.workers, "capacity", cap(q.jobs))

	// Draining must outlive the cancelled parent.
	drainCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	for range q.workers {
		g.Go(func() error {
			for job := range q.jobs {
				q.execute(drainCtx, job)
			}
			return nil
		})
	}

	<-ctx.Done()

	q.mu.Lock()
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	err := g.Wait()
	slog.Info("write queue stopped")
	return err
}

func (q *WriteQueue) execute(ctx context.Context, job writeJob) {
	ctx, cancel := context.WithTimeout(ctx, q.jobTimeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("write job panicked", "panic", r)
				err = errors.New("write job panicked")
			}
		}()
		return job.work(ctx)
	}()

	if job.then != nil {
		job.then(err)
	}
}
