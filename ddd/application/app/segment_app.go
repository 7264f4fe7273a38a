package app

import (
	"context"
	"fmt"
	"sync"

	"segment-service/ddd/application/cqe"
	"segment-service/ddd/application/dto"
	"segment-service/ddd/domain/entity"
	"segment-service/ddd/domain/gateway"
	"segment-service/ddd/domain/repo"
	"segment-service/ddd/infrastructure/database/persistence"
	"segment-service/ddd/infrastructure/queue"
	"segment-service/pkg/config"
	"segment-service/pkg/errno"
	"segment-service/pkg/logger"
)

// SegmentApp orchestrates the segment pipeline: validated, credit-gated batch
// admission, the poll read, and the guarded composite request.
type SegmentApp interface {
	// SubmitBatch validates a batch of cuts, debits credits, persists the
	// rows and enqueues encode jobs.
	SubmitBatch(ctx context.Context, req *cqe.SubmitSegmentBatchReq) (*dto.SubmitBatchDto, error)

	// ListByVideo is the poll read: a snapshot of every segment of a video.
	ListByVideo(ctx context.Context, req *cqe.ListSegmentsReq) ([]*dto.SegmentDto, error)

	// RequestComposite claims a completed segment for the composite stage.
	RequestComposite(ctx context.Context, req *cqe.RequestCompositeReq) (*dto.SegmentDto, error)

	// ListBackgrounds returns the shared background catalog.
	ListBackgrounds(ctx context.Context) ([]*dto.BackgroundAssetDto, error)
}

type segmentAppImpl struct {
	segmentRepo repo.SegmentRepository
	videoRepo   repo.SourceVideoRepository
	creditRepo  repo.CreditRepository
	bgRepo      repo.BackgroundRepository
	encodeQueue queue.JobQueue
	compQueue   queue.JobQueue
	events      gateway.EventPublisher
	cfg         *config.Config
}

var (
	segmentAppOnce      sync.Once
	singletonSegmentApp SegmentApp
)

// DefaultSegmentApp returns the app singleton on the default wiring. Queues
// and publisher must be injected via NewSegmentAppWith during bootstrap;
// this accessor is for handlers created after wiring.
func DefaultSegmentApp() SegmentApp {
	return singletonSegmentApp
}

// NewSegmentAppWith wires the orchestrator and stores it as the singleton.
func NewSegmentAppWith(
	segmentRepo repo.SegmentRepository,
	videoRepo repo.SourceVideoRepository,
	creditRepo repo.CreditRepository,
	bgRepo repo.BackgroundRepository,
	encodeQueue queue.JobQueue,
	compQueue queue.JobQueue,
	events gateway.EventPublisher,
	cfg *config.Config,
) SegmentApp {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	app := &segmentAppImpl{
		segmentRepo: segmentRepo,
		videoRepo:   videoRepo,
		creditRepo:  creditRepo,
		bgRepo:      bgRepo,
		encodeQueue: encodeQueue,
		compQueue:   compQueue,
		events:      events,
		cfg:         cfg,
	}
	segmentAppOnce.Do(func() {
		singletonSegmentApp = app
	})
	return app
}

// NewSegmentApp builds the orchestrator on default repositories. Used by
// tests and tools that bring their own queues.
func NewSegmentApp(encodeQueue, compQueue queue.JobQueue, events gateway.EventPublisher) SegmentApp {
	return NewSegmentAppWith(
		persistence.NewSegmentRepository(),
		persistence.NewSourceVideoRepository(),
		persistence.NewCreditRepository(),
		persistence.NewBackgroundRepository(),
		encodeQueue,
		compQueue,
		events,
		config.GetGlobalConfig(),
	)
}

// SubmitBatch runs the admission sequence: validate every cut, check the
// source video, debit n credits atomically, insert the rows, enqueue encode
// jobs. Validation failures reject the whole batch before any debit; an
// insert failure refunds the debit.
func (a *segmentAppImpl) SubmitBatch(ctx context.Context, req *cqe.SubmitSegmentBatchReq) (*dto.SubmitBatchDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	video, err := a.videoRepo.Get(ctx, req.VideoUUID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if video == nil || !video.OwnedBy(req.UserUUID) {
		return nil, errno.ErrVideoNotFound
	}
	if !video.Status().Usable() {
		return nil, errno.ErrVideoNotReady
	}
	for _, seg := range req.Segments {
		if seg.EndSeconds > video.DurationSeconds() {
			return nil, errno.ErrTimeRangeOutOfBounds
		}
	}

	cost := len(req.Segments) * a.costPerSegment()
	debited, err := a.creditRepo.DebitIfSufficient(ctx, req.UserUUID, cost,
		fmt.Sprintf("segment batch of %d for video %s", len(req.Segments), req.VideoUUID))
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if !debited {
		return nil, errno.ErrInsufficientCredits
	}

	segments := make([]*entity.SegmentEntity, 0, len(req.Segments))
	for _, seg := range req.Segments {
		segments = append(segments, entity.NewSegmentEntity(req.UserUUID, req.VideoUUID, seg.Name, seg.StartSeconds, seg.EndSeconds))
	}
	if err := a.segmentRepo.CreateBatch(ctx, segments); err != nil {
		if refundErr := a.creditRepo.Credit(ctx, req.UserUUID, cost, "refund: batch insert failed"); refundErr != nil {
			logger.Errorf("refund after failed insert failed user_uuid=%s amount=%d error=%v", req.UserUUID, cost, refundErr)
		}
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}

	for _, segment := range segments {
		a.dispatchEncode(ctx, segment)
	}

	balance, err := a.creditRepo.Balance(ctx, req.UserUUID)
	if err != nil {
		logger.Warnf("balance read after submit failed user_uuid=%s error=%v", req.UserUUID, err)
	}

	logger.Info("Segment batch accepted", map[string]interface{}{
		"user_uuid":  req.UserUUID,
		"video_uuid": req.VideoUUID,
		"segments":   len(segments),
		"cost":       cost,
	})

	return &dto.SubmitBatchDto{
		VideoUUID:        req.VideoUUID,
		Segments:         dto.NewSegmentDtoList(segments),
		CreditsCharged:   cost,
		RemainingCredits: balance,
	}, nil
}

// dispatchEncode enqueues one encode job. An enqueue failure fails only that
// segment; its siblings stay queued.
func (a *segmentAppImpl) dispatchEncode(ctx context.Context, segment *entity.SegmentEntity) {
	job := &queue.Job{Kind: queue.JobKindEncode, SegmentUUID: segment.SegmentUUID()}
	if err := a.encodeQueue.Enqueue(ctx, job); err != nil {
		logger.Errorf("encode enqueue failed segment_uuid=%s error=%v", segment.SegmentUUID(), err)
		if markErr := a.segmentRepo.MarkFailedFromPending(ctx, segment.SegmentUUID(), "could not be queued for processing"); markErr != nil {
			logger.Errorf("mark unqueued segment failed segment_uuid=%s error=%v", segment.SegmentUUID(), markErr)
		}
		return
	}
	a.publish(ctx, gateway.SegmentEvent{
		Type:        "created",
		SegmentUUID: segment.SegmentUUID(),
		VideoUUID:   segment.VideoUUID(),
		UserUUID:    segment.UserUUID(),
	})
}

func (a *segmentAppImpl) ListByVideo(ctx context.Context, req *cqe.ListSegmentsReq) ([]*dto.SegmentDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	video, err := a.videoRepo.Get(ctx, req.VideoUUID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if video == nil || !video.OwnedBy(req.UserUUID) {
		return nil, errno.ErrVideoNotFound
	}
	segments, err := a.segmentRepo.ListByVideo(ctx, req.UserUUID, req.VideoUUID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return dto.NewSegmentDtoList(segments), nil
}

// RequestComposite claims completed→processing under the is_composited=false
// guard, then enqueues the composite job. A failed enqueue restores the claim
// so the segment stays usable.
func (a *segmentAppImpl) RequestComposite(ctx context.Context, req *cqe.RequestCompositeReq) (*dto.SegmentDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	segment, err := a.segmentRepo.Get(ctx, req.SegmentUUID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if segment == nil || segment.UserUUID() != req.UserUUID {
		return nil, errno.ErrSegmentNotFound
	}

	background, err := a.bgRepo.Get(ctx, req.BackgroundUUID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if background == nil {
		return nil, errno.ErrBackgroundNotFound
	}

	claimed, err := a.segmentRepo.ClaimComposite(ctx, req.SegmentUUID, req.BackgroundUUID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if !claimed {
		return nil, errno.ErrInvalidSegmentState
	}

	job := &queue.Job{Kind: queue.JobKindComposite, SegmentUUID: req.SegmentUUID, BackgroundUUID: req.BackgroundUUID}
	if err := a.compQueue.Enqueue(ctx, job); err != nil {
		if revertErr := a.segmentRepo.RevertComposite(ctx, req.SegmentUUID, "composite could not be queued"); revertErr != nil {
			logger.Errorf("revert after failed composite enqueue failed segment_uuid=%s error=%v", req.SegmentUUID, revertErr)
		}
		return nil, errno.NewBizError(errno.ErrQueueFull, err)
	}

	updated, err := a.segmentRepo.Get(ctx, req.SegmentUUID)
	if err != nil || updated == nil {
		return dto.NewSegmentDto(segment), nil
	}
	return dto.NewSegmentDto(updated), nil
}

func (a *segmentAppImpl) ListBackgrounds(ctx context.Context) ([]*dto.BackgroundAssetDto, error) {
	assets, err := a.bgRepo.List(ctx)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return dto.NewBackgroundAssetDtoList(assets), nil
}

func (a *segmentAppImpl) costPerSegment() int {
	cost := a.cfg.Credits.CostPerSegment
	if cost <= 0 {
		cost = 1
	}
	return cost
}

func (a *segmentAppImpl) publish(ctx context.Context, event gateway.SegmentEvent) {
	if a.events == nil {
		return
	}
	if err := a.events.Publish(ctx, event); err != nil {
		logger.Warnf("segment event publish failed type=%s segment_uuid=%s error=%v", event.Type, event.SegmentUUID, err)
	}
}
