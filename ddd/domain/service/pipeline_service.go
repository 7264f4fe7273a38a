package service

import (
	"context"
	"errors"
	"fmt"

	"segment-service/ddd/domain/gateway"
	"segment-service/ddd/domain/port"
	"segment-service/ddd/domain/repo"
	"segment-service/pkg/logger"
)

// PipelineService executes one unit of pipeline work against its segment row.
// Only the worker that holds a segment's UUID writes its status; a failure of
// one segment never touches its siblings.
type PipelineService interface {
	// ExecuteEncode runs the primary transcode stage for a pending segment.
	ExecuteEncode(ctx context.Context, segmentUUID string) error

	// ExecuteComposite runs the optional composite stage for a segment
	// already claimed (completed→processing) by the orchestrator.
	ExecuteComposite(ctx context.Context, segmentUUID, backgroundUUID string) error
}

type pipelineServiceImpl struct {
	segmentRepo repo.SegmentRepository
	videoRepo   repo.SourceVideoRepository
	bgRepo      repo.BackgroundRepository
	executor    port.EncodeExecutor
	events      gateway.EventPublisher
}

// NewPipelineService wires the per-unit execution service.
func NewPipelineService(
	segmentRepo repo.SegmentRepository,
	videoRepo repo.SourceVideoRepository,
	bgRepo repo.BackgroundRepository,
	executor port.EncodeExecutor,
	events gateway.EventPublisher,
) PipelineService {
	return &pipelineServiceImpl{
		segmentRepo: segmentRepo,
		videoRepo:   videoRepo,
		bgRepo:      bgRepo,
		executor:    executor,
		events:      events,
	}
}

// ExecuteEncode claims the segment, invokes the encoder, and records the
// terminal state. Encode errors become status=failed, never a returned error
// to the submitter; the returned error only signals worker-level logging.
func (s *pipelineServiceImpl) ExecuteEncode(ctx context.Context, segmentUUID string) error {
	claimed, err := s.segmentRepo.ClaimProcessing(ctx, segmentUUID)
	if err != nil {
		return fmt.Errorf("claim segment %s: %w", segmentUUID, err)
	}
	if !claimed {
		// Already picked up, swept, or terminal. Not an error.
		logger.Warnf("segment not claimable, skipping segment_uuid=%s", segmentUUID)
		return nil
	}

	segment, err := s.segmentRepo.Get(ctx, segmentUUID)
	if err != nil || segment == nil {
		s.failEncode(ctx, segmentUUID, "", "", "segment row unreadable after claim")
		return fmt.Errorf("load segment %s: %w", segmentUUID, err)
	}

	video, err := s.videoRepo.Get(ctx, segment.VideoUUID())
	if err != nil || video == nil {
		s.failEncode(ctx, segmentUUID, segment.VideoUUID(), segment.UserUUID(), "source video unavailable")
		return fmt.Errorf("load source video %s: %w", segment.VideoUUID(), err)
	}

	_, publicURL, err := s.executor.CutSegment(ctx, video, segment)
	if err != nil {
		s.failEncode(ctx, segmentUUID, segment.VideoUUID(), segment.UserUUID(), err.Error())
		return fmt.Errorf("encode segment %s: %w", segmentUUID, err)
	}
	if publicURL == "" {
		// A completed segment must never lack a resolvable file_url.
		s.failEncode(ctx, segmentUUID, segment.VideoUUID(), segment.UserUUID(), "encoder produced no output URL")
		return errors.New("encoder produced no output URL")
	}

	if err := s.segmentRepo.MarkCompleted(ctx, segmentUUID, publicURL); err != nil {
		return fmt.Errorf("mark segment %s completed: %w", segmentUUID, err)
	}
	logger.Infof("segment encoded segment_uuid=%s file_url=%s", segmentUUID, publicURL)
	s.publish(ctx, gateway.SegmentEvent{
		Type:        "completed",
		SegmentUUID: segmentUUID,
		VideoUUID:   segment.VideoUUID(),
		UserUUID:    segment.UserUUID(),
		FileURL:     publicURL,
	})
	return nil
}

// ExecuteComposite stacks the segment over the chosen background. Failure is
// non-destructive: the row is restored to completed with the original
// file_url and is_composited stays false.
func (s *pipelineServiceImpl) ExecuteComposite(ctx context.Context, segmentUUID, backgroundUUID string) error {
	segment, err := s.segmentRepo.Get(ctx, segmentUUID)
	if err != nil || segment == nil {
		return fmt.Errorf("load segment %s: %w", segmentUUID, err)
	}

	background, err := s.bgRepo.Get(ctx, backgroundUUID)
	if err != nil || background == nil {
		s.revertComposite(ctx, segment.VideoUUID(), segment.UserUUID(), segmentUUID, "background asset unavailable")
		return fmt.Errorf("load background %s: %w", backgroundUUID, err)
	}

	_, combinedURL, err := s.executor.CompositeSegment(ctx, segment, background)
	if err != nil {
		s.revertComposite(ctx, segment.VideoUUID(), segment.UserUUID(), segmentUUID, err.Error())
		return fmt.Errorf("composite segment %s: %w", segmentUUID, err)
	}
	if combinedURL == "" {
		s.revertComposite(ctx, segment.VideoUUID(), segment.UserUUID(), segmentUUID, "compositor produced no output URL")
		return errors.New("compositor produced no output URL")
	}

	if err := s.segmentRepo.FinishComposite(ctx, segmentUUID, combinedURL); err != nil {
		return fmt.Errorf("finish composite %s: %w", segmentUUID, err)
	}
	logger.Infof("segment composited segment_uuid=%s combined_url=%s", segmentUUID, combinedURL)
	s.publish(ctx, gateway.SegmentEvent{
		Type:        "composited",
		SegmentUUID: segmentUUID,
		VideoUUID:   segment.VideoUUID(),
		UserUUID:    segment.UserUUID(),
		FileURL:     segment.FileURL(),
		CombinedURL: combinedURL,
	})
	return nil
}

func (s *pipelineServiceImpl) failEncode(ctx context.Context, segmentUUID, videoUUID, userUUID, message string) {
	if err := s.segmentRepo.MarkFailed(ctx, segmentUUID, message); err != nil {
		logger.Errorf("failed to mark segment failed segment_uuid=%s error=%v", segmentUUID, err)
		return
	}
	s.publish(ctx, gateway.SegmentEvent{
		Type:        "failed",
		SegmentUUID: segmentUUID,
		VideoUUID:   videoUUID,
		UserUUID:    userUUID,
		Message:     message,
	})
}

func (s *pipelineServiceImpl) revertComposite(ctx context.Context, videoUUID, userUUID, segmentUUID, message string) {
	if err := s.segmentRepo.RevertComposite(ctx, segmentUUID, message); err != nil {
		logger.Errorf("failed to revert composite segment_uuid=%s error=%v", segmentUUID, err)
	}
	logger.Warnf("composite failed, original asset preserved segment_uuid=%s reason=%s", segmentUUID, message)
}

func (s *pipelineServiceImpl) publish(ctx context.Context, event gateway.SegmentEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Warnf("segment event publish failed type=%s segment_uuid=%s error=%v", event.Type, event.SegmentUUID, err)
	}
}
