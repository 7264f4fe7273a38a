package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"segment-service/ddd/infrastructure/database/po"
	"segment-service/internal/resource"
	"segment-service/pkg/logger"
)

// SourceVideoDAO data access for uploaded originals.
type SourceVideoDAO struct {
	db *gorm.DB
}

// NewSourceVideoDAO creates a DAO on an injected handle.
func NewSourceVideoDAO(db *gorm.DB) *SourceVideoDAO {
	return &SourceVideoDAO{db: db}
}

// DefaultSourceVideoDAO creates a DAO on the shared MySQL resource.
func DefaultSourceVideoDAO() *SourceVideoDAO {
	return NewSourceVideoDAO(resource.DefaultMysqlResource().MainDB())
}

// Create inserts a source video row.
func (d *SourceVideoDAO) Create(ctx context.Context, video *po.SourceVideo) error {
	if err := d.db.WithContext(ctx).Create(video).Error; err != nil {
		logger.Errorf("Error creating source video %v", err)
		return err
	}
	return nil
}

// FindByVideoUUID loads one source video, nil when absent.
func (d *SourceVideoDAO) FindByVideoUUID(ctx context.Context, videoUUID string) (*po.SourceVideo, error) {
	var video po.SourceVideo
	if err := d.db.WithContext(ctx).
		Where("video_uuid = ?", videoUUID).
		First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Errorf("Error query source video by uuid %v", err)
		return nil, err
	}
	return &video, nil
}

// UpdateStatus sets the lifecycle status.
func (d *SourceVideoDAO) UpdateStatus(ctx context.Context, videoUUID, status string) error {
	if err := d.db.WithContext(ctx).
		Model(&po.SourceVideo{}).
		Where("video_uuid = ?", videoUUID).
		Update("status", status).Error; err != nil {
		logger.Errorf("Error updating source video status %v", err)
		return err
	}
	return nil
}
