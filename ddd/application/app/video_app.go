package app

import (
	"context"
	"sync"

	"segment-service/ddd/application/cqe"
	"segment-service/ddd/application/dto"
	"segment-service/ddd/domain/entity"
	"segment-service/ddd/domain/port"
	"segment-service/ddd/domain/repo"
	"segment-service/ddd/domain/vo"
	"segment-service/ddd/infrastructure/database/persistence"
	"segment-service/ddd/infrastructure/executor"
	"segment-service/ddd/infrastructure/storage"
	"segment-service/internal/resource"
	"segment-service/pkg/config"
	"segment-service/pkg/errno"
	"segment-service/pkg/logger"
)

// VideoApp manages registered source videos.
type VideoApp interface {
	// Register records an already-uploaded original and makes it cuttable.
	Register(ctx context.Context, req *cqe.RegisterSourceVideoReq) (*dto.SourceVideoDto, error)

	// Get loads one source video for its owner.
	Get(ctx context.Context, req *cqe.GetSourceVideoReq) (*dto.SourceVideoDto, error)
}

type videoAppImpl struct {
	videoRepo repo.SourceVideoRepository
	prober    port.MediaProber
}

var (
	videoAppOnce      sync.Once
	singletonVideoApp VideoApp
)

// DefaultVideoApp returns the app singleton on the default repository and the
// ffprobe-backed prober.
func DefaultVideoApp() VideoApp {
	videoAppOnce.Do(func() {
		cfg := config.GetGlobalConfig()
		storageGateway := storage.NewMinioStorage(resource.DefaultMinioResource(), cfg)
		singletonVideoApp = NewVideoAppWith(
			persistence.NewSourceVideoRepository(),
			executor.NewFFmpegExecutor(cfg, storageGateway),
		)
	})
	return singletonVideoApp
}

// NewVideoAppWith builds the app on an injected repository and prober; a nil
// prober makes the client-supplied duration mandatory.
func NewVideoAppWith(videoRepo repo.SourceVideoRepository, prober port.MediaProber) VideoApp {
	return &videoAppImpl{videoRepo: videoRepo, prober: prober}
}

// Register persists the metadata row. The caller has already placed the bytes
// in blob storage, so the row is immediately usable for cuts. A missing
// duration is probed from the stored object.
func (a *videoAppImpl) Register(ctx context.Context, req *cqe.RegisterSourceVideoReq) (*dto.SourceVideoDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	duration := req.DurationSeconds
	if duration <= 0 {
		if a.prober == nil {
			return nil, errno.ErrInvalidVideoDuration
		}
		probed, err := a.prober.ProbeDuration(ctx, req.StorageKey)
		if err != nil {
			return nil, errno.NewBizError(errno.ErrInvalidVideoDuration, err)
		}
		if probed <= 0 {
			return nil, errno.ErrInvalidVideoDuration
		}
		duration = probed
	}

	video := entity.NewSourceVideoEntity(req.UserUUID, req.Filename, req.StorageKey, req.SizeBytes, duration)
	video.SetStatus(vo.VideoStatusCompleted)

	if err := a.videoRepo.Create(ctx, video); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}

	logger.Info("Source video registered", map[string]interface{}{
		"video_uuid":       video.VideoUUID(),
		"user_uuid":        req.UserUUID,
		"duration_seconds": video.DurationSeconds(),
	})
	return dto.NewSourceVideoDto(video), nil
}

func (a *videoAppImpl) Get(ctx context.Context, req *cqe.GetSourceVideoReq) (*dto.SourceVideoDto, error) {
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
	return dto.NewSourceVideoDto(video), nil
}
