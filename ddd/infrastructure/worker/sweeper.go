package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"segment-service/ddd/domain/repo"
	"segment-service/pkg/config"
	"segment-service/pkg/logger"
	"segment-service/pkg/redisclient"
)

const sweepBatchLimit = 200

// StaleSweeper periodically resolves segments stuck in processing or pending
// past the configured timeout. With redis configured only one replica sweeps
// per interval; without it every replica sweeps, which is safe because the
// underlying transitions are guarded updates.
type StaleSweeper struct {
	segmentRepo repo.SegmentRepository
	redis       *redisclient.Client
	cfg         *config.Config
	holderID    string

	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
}

// NewStaleSweeper builds the sweeper; redis may be nil.
func NewStaleSweeper(segmentRepo repo.SegmentRepository, redis *redisclient.Client, cfg *config.Config) *StaleSweeper {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &StaleSweeper{
		segmentRepo: segmentRepo,
		redis:       redis,
		cfg:         cfg,
		holderID:    uuid.New().String(),
	}
}

// Start launches the sweep loop.
func (s *StaleSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	sweepCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go s.loop(sweepCtx)

	logger.Info("Stale sweeper started", map[string]interface{}{
		"interval":           s.cfg.Sweep.Interval.String(),
		"processing_timeout": s.cfg.Sweep.ProcessingTimeout.String(),
	})
	return nil
}

// Stop cancels the loop and waits for a running sweep to finish.
func (s *StaleSweeper) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()

	// Hand the lock back so another replica can sweep without waiting out
	// the TTL.
	if s.redis != nil {
		ctx, releaseCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer releaseCancel()
		if err := s.redis.ReleaseLock(ctx, s.cfg.Sweep.LockKey, s.holderID); err != nil {
			logger.Warnf("sweep lock release failed error=%v", err)
		}
	}

	logger.Info("Stale sweeper stopped", nil)
	return nil
}

// IsRunning reports whether the loop is active.
func (s *StaleSweeper) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *StaleSweeper) loop(ctx context.Context) {
	defer s.wg.Done()

	interval := s.cfg.Sweep.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// One pass right away covers rows orphaned by the previous process.
	s.sweepOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

// sweepOnce resolves one batch of stale rows per state. Processing rows that
// already carry a file_url are mid-composite; those are restored to completed
// instead, the original asset stays usable. Pending rows past the timeout lost
// their queue entry (full queue, process restart) and are failed so the poll
// read terminates for them.
func (s *StaleSweeper) sweepOnce(ctx context.Context) {
	if !s.acquireLeadership(ctx) {
		return
	}

	cutoff := time.Now().Add(-s.cfg.Sweep.ProcessingTimeout)
	failed, reverted := s.sweepProcessing(ctx, cutoff)
	lost := s.sweepPending(ctx, cutoff)

	if failed+reverted+lost > 0 {
		logger.Info("Stale sweep finished", map[string]interface{}{
			"failed":   failed,
			"reverted": reverted,
			"lost":     lost,
		})
	}
}

func (s *StaleSweeper) sweepProcessing(ctx context.Context, cutoff time.Time) (failed, reverted int) {
	stale, err := s.segmentRepo.ListStaleProcessing(ctx, cutoff, sweepBatchLimit)
	if err != nil {
		logger.Errorf("stale processing query failed error=%v", err)
		return 0, 0
	}

	for _, segment := range stale {
		if ctx.Err() != nil {
			return failed, reverted
		}
		if segment.FileURL() != "" {
			if err := s.segmentRepo.RevertComposite(ctx, segment.SegmentUUID(), "composite timed out"); err != nil {
				logger.Errorf("stale composite revert failed segment_uuid=%s error=%v", segment.SegmentUUID(), err)
				continue
			}
			reverted++
			continue
		}
		if err := s.segmentRepo.MarkFailed(ctx, segment.SegmentUUID(), "processing timed out"); err != nil {
			logger.Errorf("stale segment fail failed segment_uuid=%s error=%v", segment.SegmentUUID(), err)
			continue
		}
		failed++
	}
	return failed, reverted
}

func (s *StaleSweeper) sweepPending(ctx context.Context, cutoff time.Time) (lost int) {
	stale, err := s.segmentRepo.ListStalePending(ctx, cutoff, sweepBatchLimit)
	if err != nil {
		logger.Errorf("stale pending query failed error=%v", err)
		return 0
	}

	for _, segment := range stale {
		if ctx.Err() != nil {
			return lost
		}
		if err := s.segmentRepo.MarkFailedFromPending(ctx, segment.SegmentUUID(), "pending timed out"); err != nil {
			logger.Errorf("stale pending fail failed segment_uuid=%s error=%v", segment.SegmentUUID(), err)
			continue
		}
		lost++
	}
	return lost
}

func (s *StaleSweeper) acquireLeadership(ctx context.Context) bool {
	if s.redis == nil {
		return true
	}
	ok, err := s.redis.AcquireLock(ctx, s.cfg.Sweep.LockKey, s.holderID, s.cfg.Sweep.LockTTL)
	if err != nil {
		logger.Warnf("sweep lock acquire failed, skipping pass error=%v", err)
		return false
	}
	return ok
}
