package repo

import (
	"context"

	"segment-service/ddd/domain/entity"
	"segment-service/ddd/domain/vo"
)

// SourceVideoRepository persists uploaded originals.
type SourceVideoRepository interface {
	Create(ctx context.Context, video *entity.SourceVideoEntity) error
	Get(ctx context.Context, videoUUID string) (*entity.SourceVideoEntity, error)
	UpdateStatus(ctx context.Context, videoUUID string, status vo.VideoStatus) error
}
