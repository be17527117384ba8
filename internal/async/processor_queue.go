package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultWorkers        = 4
	DefaultQueueSize      = 256
	DefaultProcessTimeout = 3 * time.Minute
)

type ProcessorQueue struct {
	proc    Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration
	metrics *Metrics

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

var _ Queue = (*ProcessorQueue)(nil)

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithMetrics records queue activity on m.
func WithMetrics(m *Metrics) Option {
	return func(q *ProcessorQueue) {
		q.metrics = m
	}
}

// NewProcessorQueue starts the workers immediately.
func NewProcessorQueue(proc Processor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: DefaultWorkers,
		timeout: DefaultProcessTimeout,
		ch:      make(chan Job, DefaultQueueSize),
	}
	for _, o := range opts {
		o(q)
	}
	if q.metrics == nil {
		q.metrics = NewMetrics(nil)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					q.metrics.depth.Dec()
					q.run(workerID, job)
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) run(workerID int, job Job) {
	q.metrics.inflight.Inc()
	defer q.metrics.inflight.Dec()
	timer := prometheus.NewTimer(q.metrics.duration)
	defer timer.ObserveDuration()

	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	err := q.safeProcess(ctx, job)
	if err != nil {
		q.metrics.results.WithLabelValues("error").Inc()
		q.logger.Error("processing failed", "worker_id", workerID, "job_id", job.ID, "path", job.Path, "error", err)
		return
	}
	q.metrics.results.WithLabelValues("ok").Inc()
	q.logger.Info("processed file successfully", "worker_id", workerID, "job_id", job.ID, "path", job.Path)
}

// safeProcess keeps one bad document from taking a worker down.
func (q *ProcessorQueue) safeProcess(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	return q.proc.Process(ctx, job)
}

// Enqueue blocks while the buffer is full, until ctx is done.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "job_id", job.ID, "path", job.Path)
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	q.metrics.depth.Inc()
	select {
	case q.ch <- job:
	default:
		q.logger.Warn("queue full, applying backpressure", "job_id", job.ID, "path", job.Path)
		select {
		case q.ch <- job:
		case <-ctx.Done():
			q.metrics.depth.Dec()
			return ctx.Err()
		}
	}
	q.metrics.enqueued.Inc()
	q.logger.Debug("queued file for processing", "job_id", job.ID, "path", job.Path)
	return nil
}

// Shutdown stops accepting jobs and waits for queued ones to finish or for
// ctx to end.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
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
