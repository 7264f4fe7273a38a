package persistence

import (
	"context"

	"gorm.io/gorm"

	"segment-service/ddd/domain/entity"
	"segment-service/ddd/domain/repo"
	"segment-service/ddd/infrastructure/database/dao"
	"segment-service/ddd/infrastructure/database/po"
)

type backgroundRepositoryImpl struct {
	backgroundDao *dao.BackgroundDAO
}

// NewBackgroundRepository builds the catalog reader on the shared DB.
func NewBackgroundRepository() repo.BackgroundRepository {
	return NewBackgroundRepositoryWith(dao.DefaultBackgroundDAO())
}

// NewBackgroundRepositoryWith builds the reader on an injected DAO.
func NewBackgroundRepositoryWith(backgroundDao *dao.BackgroundDAO) repo.BackgroundRepository {
	return &backgroundRepositoryImpl{backgroundDao: backgroundDao}
}

// NewBackgroundRepositoryOn builds the reader on an injected gorm handle.
func NewBackgroundRepositoryOn(db *gorm.DB) repo.BackgroundRepository {
	return NewBackgroundRepositoryWith(dao.NewBackgroundDAO(db))
}

func (r *backgroundRepositoryImpl) Get(ctx context.Context, assetUUID string) (*entity.BackgroundAssetEntity, error) {
	p, err := r.backgroundDao.FindByAssetUUID(ctx, assetUUID)
	if err != nil || p == nil {
		return nil, err
	}
	return toBackgroundEntity(p), nil
}

func (r *backgroundRepositoryImpl) List(ctx context.Context) ([]*entity.BackgroundAssetEntity, error) {
	pos, err := r.backgroundDao.List(ctx)
	if err != nil {
		return nil, err
	}
	assets := make([]*entity.BackgroundAssetEntity, 0, len(pos))
	for _, p := range pos {
		assets = append(assets, toBackgroundEntity(p))
	}
	return assets, nil
}

func toBackgroundEntity(p *po.BackgroundAsset) *entity.BackgroundAssetEntity {
	return entity.NewBackgroundAssetEntityWithDetails(p.Id, p.AssetUUID, p.Name, p.StorageKey, p.CreatedAt)
}
