package repo

import (
	"context"

	"segment-service/ddd/domain/entity"
)

// BackgroundRepository reads the shared background clip catalog.
type BackgroundRepository interface {
	Get(ctx context.Context, assetUUID string) (*entity.BackgroundAssetEntity, error)
	List(ctx context.Context) ([]*entity.BackgroundAssetEntity, error)
}
