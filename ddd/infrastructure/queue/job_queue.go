package queue

import (
	"context"
	"fmt"
	"sync"
)

// JobKind selects the pipeline stage a job belongs to.
type JobKind string

const (
	JobKindEncode    JobKind = "encode"
	JobKindComposite JobKind = "composite"
)

// Job is one dispatched unit of pipeline work. Workers re-read the segment
// row on pickup; the job only carries identifiers.
type Job struct {
	Kind           JobKind
	SegmentUUID    string
	BackgroundUUID string
}

// JobQueue dispatches pipeline jobs to the worker pool.
type JobQueue interface {
	// Enqueue adds a job; non-blocking, fails when the queue is full.
	Enqueue(ctx context.Context, job *Job) error

	// Dequeue removes a job, blocking until one is available or ctx ends.
	Dequeue(ctx context.Context) (*Job, error)

	// Size returns the number of queued jobs.
	Size() int

	// Close shuts the queue down.
	Close() error

	// IsClosed reports whether the queue is closed.
	IsClosed() bool
}

// MemoryJobQueue is the in-process bounded queue behind the worker pool.
type MemoryJobQueue struct {
	queue   chan *Job
	closed  bool
	mu      sync.RWMutex
	metrics *QueueMetrics
}

// QueueMetrics counts queue traffic.
type QueueMetrics struct {
	EnqueueCount uint64
	DequeueCount uint64
	MaxSize      int
	mu           sync.RWMutex
}

// NewMemoryJobQueue creates a bounded in-memory queue.
func NewMemoryJobQueue(capacity int) *MemoryJobQueue {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryJobQueue{
		queue:   make(chan *Job, capacity),
		metrics: &QueueMetrics{MaxSize: capacity},
	}
}

// Enqueue adds a job without blocking.
func (q *MemoryJobQueue) Enqueue(ctx context.Context, job *Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return fmt.Errorf("queue is closed")
	}
	if job == nil {
		return fmt.Errorf("job cannot be nil")
	}

	select {
	case q.queue <- job:
		q.metrics.mu.Lock()
		q.metrics.EnqueueCount++
		q.metrics.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("queue is full")
	}
}

// Dequeue blocks until a job arrives or the context ends.
func (q *MemoryJobQueue) Dequeue(ctx context.Context) (*Job, error) {
	select {
	case job, ok := <-q.queue:
		if !ok {
			return nil, fmt.Errorf("queue is closed")
		}
		q.metrics.mu.Lock()
		q.metrics.DequeueCount++
		q.metrics.mu.Unlock()
		return job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current depth.
func (q *MemoryJobQueue) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return 0
	}
	return len(q.queue)
}

// Close shuts the queue down; blocked Dequeue calls return an error.
func (q *MemoryJobQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.queue)
	return nil
}

// IsClosed reports whether Close was called.
func (q *MemoryJobQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// GetMetrics returns a snapshot of the traffic counters.
func (q *MemoryJobQueue) GetMetrics() QueueMetrics {
	q.metrics.mu.RLock()
	defer q.metrics.mu.RUnlock()
	return QueueMetrics{
		EnqueueCount: q.metrics.EnqueueCount,
		DequeueCount: q.metrics.DequeueCount,
		MaxSize:      q.metrics.MaxSize,
	}
}
