package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"segment-service/ddd/infrastructure/queue"
)

type recordingPipeline struct {
	mu         sync.Mutex
	encodes    []string
	composites []string
	done       chan struct{}
	failAll    bool
}

func newRecordingPipeline(expected int) *recordingPipeline {
	return &recordingPipeline{done: make(chan struct{}, expected)}
}

func (p *recordingPipeline) ExecuteEncode(ctx context.Context, segmentUUID string) error {
	p.mu.Lock()
	p.encodes = append(p.encodes, segmentUUID)
	p.mu.Unlock()
	p.done <- struct{}{}
	if p.failAll {
		return assert.AnError
	}
	return nil
}

func (p *recordingPipeline) ExecuteComposite(ctx context.Context, segmentUUID, backgroundUUID string) error {
	p.mu.Lock()
	p.composites = append(p.composites, segmentUUID+"/"+backgroundUUID)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func (p *recordingPipeline) waitFor(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-p.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for job %d of %d", i+1, n)
		}
	}
}

func TestSegmentWorker_ProcessesJobs(t *testing.T) {
	q := queue.NewMemoryJobQueue(8)
	pipeline := newRecordingPipeline(3)
	w := NewSegmentWorker("encode", q, pipeline, 2)

	require.NoError(t, w.Start(context.Background()))
	defer func() { _ = w.Stop() }()
	assert.True(t, w.IsRunning())

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, &queue.Job{Kind: queue.JobKindEncode, SegmentUUID: "a"}))
	require.NoError(t, q.Enqueue(ctx, &queue.Job{Kind: queue.JobKindEncode, SegmentUUID: "b"}))
	require.NoError(t, q.Enqueue(ctx, &queue.Job{Kind: queue.JobKindComposite, SegmentUUID: "c", BackgroundUUID: "bg"}))

	pipeline.waitFor(t, 3)

	pipeline.mu.Lock()
	defer pipeline.mu.Unlock()
	assert.ElementsMatch(t, []string{"a", "b"}, pipeline.encodes)
	assert.Equal(t, []string{"c/bg"}, pipeline.composites)
}

func TestSegmentWorker_StatsCountFailures(t *testing.T) {
	q := queue.NewMemoryJobQueue(8)
	pipeline := newRecordingPipeline(2)
	pipeline.failAll = true
	w := NewSegmentWorker("encode", q, pipeline, 1)

	require.NoError(t, w.Start(context.Background()))
	defer func() { _ = w.Stop() }()

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, &queue.Job{Kind: queue.JobKindEncode, SegmentUUID: "a"}))
	require.NoError(t, q.Enqueue(ctx, &queue.Job{Kind: queue.JobKindEncode, SegmentUUID: "b"}))
	pipeline.waitFor(t, 2)

	require.Eventually(t, func() bool {
		return w.GetStats().FailedJobs == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, w.GetStats().ProcessedJobs)
}

func TestSegmentWorker_StopDrains(t *testing.T) {
	q := queue.NewMemoryJobQueue(8)
	pipeline := newRecordingPipeline(1)
	w := NewSegmentWorker("encode", q, pipeline, 2)

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, q.Enqueue(context.Background(), &queue.Job{Kind: queue.JobKindEncode, SegmentUUID: "a"}))
	pipeline.waitFor(t, 1)

	require.NoError(t, w.Stop())
	assert.False(t, w.IsRunning())
	assert.Zero(t, w.GetStats().ActiveWorkers)

	// Stopping again is harmless.
	require.NoError(t, w.Stop())
}

type blockingPipeline struct {
	started chan struct{}
	release chan struct{}
	ctxErr  error
}

func newBlockingPipeline() *blockingPipeline {
	return &blockingPipeline{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (p *blockingPipeline) ExecuteEncode(ctx context.Context, segmentUUID string) error {
	close(p.started)
	<-p.release
	p.ctxErr = ctx.Err()
	return nil
}

func (p *blockingPipeline) ExecuteComposite(ctx context.Context, segmentUUID, backgroundUUID string) error {
	return nil
}

func TestSegmentWorker_StopLetsInFlightJobFinish(t *testing.T) {
	q := queue.NewMemoryJobQueue(2)
	pipeline := newBlockingPipeline()
	w := NewSegmentWorker("encode", q, pipeline, 1)

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, q.Enqueue(context.Background(), &queue.Job{Kind: queue.JobKindEncode, SegmentUUID: "a"}))

	select {
	case <-pipeline.started:
	case <-time.After(2 * time.Second):
		t.Fatal("job never started")
	}

	stopDone := make(chan struct{})
	go func() {
		defer close(stopDone)
		_ = w.Stop()
	}()

	// Stop must wait for the in-flight job, not kill it.
	select {
	case <-stopDone:
		t.Fatal("Stop returned while a job was still in flight")
	case <-time.After(100 * time.Millisecond):
	}

	close(pipeline.release)

	select {
	case <-stopDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the job finished")
	}

	assert.NoError(t, pipeline.ctxErr)
	assert.EqualValues(t, 1, w.GetStats().ProcessedJobs)
}

func TestSegmentWorker_DoubleStart(t *testing.T) {
	q := queue.NewMemoryJobQueue(2)
	w := NewSegmentWorker("encode", q, newRecordingPipeline(0), 1)

	require.NoError(t, w.Start(context.Background()))
	defer func() { _ = w.Stop() }()
	assert.Error(t, w.Start(context.Background()))
}
