package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"segment-service/ddd/domain/service"
	"segment-service/ddd/infrastructure/queue"
	"segment-service/pkg/logger"
)

// Worker is a pool of goroutines draining a job queue.
type Worker interface {
	// Start launches the pool.
	Start(ctx context.Context) error

	// Stop drains in-flight jobs and shuts the pool down.
	Stop() error

	// IsRunning reports whether the pool is active.
	IsRunning() bool

	// GetStats returns a snapshot of the pool counters.
	GetStats() WorkerStats
}

// WorkerStats counts pool activity.
type WorkerStats struct {
	ProcessedJobs uint64     `json:"processed_jobs"`
	FailedJobs    uint64     `json:"failed_jobs"`
	ActiveWorkers int        `json:"active_workers"`
	LastJobAt     *time.Time `json:"last_job_at,omitempty"`
}

// SegmentWorker runs pipeline jobs from a queue through the pipeline service.
// The pool size is the concurrency bound for its stage.
type SegmentWorker struct {
	name        string
	jobQueue    queue.JobQueue
	pipeline    service.PipelineService
	workerCount int

	running     bool
	stopDequeue context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.RWMutex

	stats   WorkerStats
	statsMu sync.RWMutex
}

// NewSegmentWorker builds a pool named for its stage.
func NewSegmentWorker(name string, jobQueue queue.JobQueue, pipeline service.PipelineService, workerCount int) *SegmentWorker {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &SegmentWorker{
		name:        name,
		jobQueue:    jobQueue,
		pipeline:    pipeline,
		workerCount: workerCount,
	}
}

// Start launches the pool goroutines.
func (w *SegmentWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("worker pool %s already running", w.name)
	}
	if w.jobQueue == nil || w.pipeline == nil {
		return fmt.Errorf("worker pool %s not fully wired", w.name)
	}

	// Jobs run on the caller's context so Stop can drain them; only the
	// dequeue wait is cancelled on Stop.
	dequeueCtx, stopDequeue := context.WithCancel(ctx)
	w.stopDequeue = stopDequeue
	w.running = true

	for i := 0; i < w.workerCount; i++ {
		w.wg.Add(1)
		go w.workerLoop(ctx, dequeueCtx, i)
	}

	logger.Info("Worker pool started", map[string]interface{}{
		"pool":         w.name,
		"worker_count": w.workerCount,
	})
	return nil
}

// Stop interrupts the dequeue wait and waits for in-flight jobs to finish.
// In-flight jobs keep the context passed to Start, so the caller decides when
// a drain that takes too long gets cut off.
func (w *SegmentWorker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	stopDequeue := w.stopDequeue
	w.mu.Unlock()

	if stopDequeue != nil {
		stopDequeue()
	}
	w.wg.Wait()

	logger.Info("Worker pool stopped", map[string]interface{}{"pool": w.name})
	return nil
}

// IsRunning reports whether Start has been called without a matching Stop.
func (w *SegmentWorker) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// GetStats returns a copy of the counters.
func (w *SegmentWorker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	return w.stats
}

func (w *SegmentWorker) workerLoop(jobCtx, dequeueCtx context.Context, workerID int) {
	defer w.wg.Done()

	w.statsMu.Lock()
	w.stats.ActiveWorkers++
	w.statsMu.Unlock()
	defer func() {
		w.statsMu.Lock()
		w.stats.ActiveWorkers--
		w.statsMu.Unlock()
	}()

	logger.Debugf("worker loop started pool=%s worker_id=%d", w.name, workerID)

	for {
		select {
		case <-dequeueCtx.Done():
			return
		default:
		}

		job, err := w.jobQueue.Dequeue(dequeueCtx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			if w.jobQueue.IsClosed() {
				return
			}
			logger.Warnf("dequeue failed pool=%s worker_id=%d error=%v", w.name, workerID, err)
			continue
		}
		if job == nil {
			continue
		}

		w.processJob(jobCtx, workerID, job)
	}
}

func (w *SegmentWorker) processJob(ctx context.Context, workerID int, job *queue.Job) {
	start := time.Now()

	var err error
	switch job.Kind {
	case queue.JobKindEncode:
		err = w.pipeline.ExecuteEncode(ctx, job.SegmentUUID)
	case queue.JobKindComposite:
		err = w.pipeline.ExecuteComposite(ctx, job.SegmentUUID, job.BackgroundUUID)
	default:
		err = fmt.Errorf("unknown job kind %q", job.Kind)
	}

	now := time.Now()
	w.statsMu.Lock()
	w.stats.LastJobAt = &now
	if err != nil {
		w.stats.FailedJobs++
	} else {
		w.stats.ProcessedJobs++
	}
	w.statsMu.Unlock()

	if err != nil {
		logger.Error("Job execution failed", map[string]interface{}{
			"pool":         w.name,
			"worker_id":    workerID,
			"kind":         string(job.Kind),
			"segment_uuid": job.SegmentUUID,
			"duration_ms":  time.Since(start).Milliseconds(),
			"error":        err.Error(),
		})
		return
	}
	logger.Debugf("job done pool=%s kind=%s segment_uuid=%s duration_ms=%d",
		w.name, job.Kind, job.SegmentUUID, time.Since(start).Milliseconds())
}
