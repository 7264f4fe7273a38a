package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"segment-service/ddd/infrastructure/database/po"
	"segment-service/internal/resource"
	"segment-service/pkg/logger"
)

// BackgroundDAO read access to the shared background catalog.
type BackgroundDAO struct {
	db *gorm.DB
}

// NewBackgroundDAO creates a DAO on an injected handle.
func NewBackgroundDAO(db *gorm.DB) *BackgroundDAO {
	return &BackgroundDAO{db: db}
}

// DefaultBackgroundDAO creates a DAO on the shared MySQL resource.
func DefaultBackgroundDAO() *BackgroundDAO {
	return NewBackgroundDAO(resource.DefaultMysqlResource().MainDB())
}

// FindByAssetUUID loads one catalog entry, nil when absent.
func (d *BackgroundDAO) FindByAssetUUID(ctx context.Context, assetUUID string) (*po.BackgroundAsset, error) {
	var asset po.BackgroundAsset
	if err := d.db.WithContext(ctx).
		Where("asset_uuid = ?", assetUUID).
		First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Errorf("Error query background asset by uuid %v", err)
		return nil, err
	}
	return &asset, nil
}

// List returns the whole catalog.
func (d *BackgroundDAO) List(ctx context.Context) ([]*po.BackgroundAsset, error) {
	var assets []*po.BackgroundAsset
	if err := d.db.WithContext(ctx).Order("id ASC").Find(&assets).Error; err != nil {
		logger.Errorf("Error listing background assets %v", err)
		return nil, err
	}
	return assets, nil
}
