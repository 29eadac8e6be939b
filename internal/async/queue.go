package async

import (
	"context"
	"sync"
	"time"

	"log/slog"
)

// Job is a unit of background work, typically a prediction or chat log write.
// Failures are logged and swallowed; nothing here may surface to a request.
type Job struct {
	Name string
	Run  func(context.Context) error
}

type LogQueue struct {
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*LogQueue)

func WithWorkers(n int) Option {
	return func(q *LogQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *LogQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithJobTimeout(d time.Duration) Option {
	return func(q *LogQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewLogQueue(logger *slog.Logger, opts ...Option) *LogQueue {
	q := &LogQueue{
		logger:  logger,
		workers: 2,
		timeout: 10 * time.Second,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *LogQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					err := job.Run(ctx)
					cancel()

					if err != nil {
						q.logger.Error("background job failed", "worker_id", workerID, "job", job.Name, "error", err)
					}
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue never blocks the caller. When the queue is full or shutting down the
// job is dropped; losing a log write is acceptable, delaying a response is not.
func (q *LogQueue) Enqueue(job Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "job", job.Name)
		return
	}
	select {
	case q.ch <- job:
	default:
		q.logger.Warn("queue full, dropping job", "job", job.Name)
	}
}

func (q *LogQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
