package async

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Job is one document to process.
type Job struct {
	ID          uuid.UUID
	Path        string
	SubmittedAt time.Time
}

// NewJob returns a job for path stamped with a fresh id.
func NewJob(path string) Job {
	return Job{ID: uuid.New(), Path: path, SubmittedAt: time.Now()}
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// Processor handles one job. Returned errors are logged and counted; they do
// not stop the queue.
type Processor interface {
	Process(ctx context.Context, job Job) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, job Job) error

func (f ProcessorFunc) Process(ctx context.Context, job Job) error { return f(ctx, job) }

var ErrQueueClosed = errors.New("queue is shutting down")
