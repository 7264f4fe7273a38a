package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"segment-service/ddd/domain/vo"
	"segment-service/ddd/infrastructure/database/po"
	"segment-service/internal/resource"
	"segment-service/pkg/logger"
)

// SegmentDAO data access for segment rows. All status transitions are single
// conditional UPDATEs guarded on the current status so a poller can never
// observe an out-of-order transition.
type SegmentDAO struct {
	db *gorm.DB
}

// NewSegmentDAO creates a DAO on an injected handle (tests use sqlite).
func NewSegmentDAO(db *gorm.DB) *SegmentDAO {
	return &SegmentDAO{db: db}
}

// DefaultSegmentDAO creates a DAO on the shared MySQL resource.
func DefaultSegmentDAO() *SegmentDAO {
	return NewSegmentDAO(resource.DefaultMysqlResource().MainDB())
}

// CreateBatch inserts every segment of one submission in a transaction, so
// the admission decision materializes all rows or none.
func (d *SegmentDAO) CreateBatch(ctx context.Context, segments []*po.Segment) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, seg := range segments {
			if err := tx.Create(seg).Error; err != nil {
				logger.Errorf("Error creating segment batch %v", err)
				return err
			}
		}
		return nil
	})
}

// FindBySegmentUUID loads one segment, nil when absent.
func (d *SegmentDAO) FindBySegmentUUID(ctx context.Context, segmentUUID string) (*po.Segment, error) {
	var seg po.Segment
	if err := d.db.WithContext(ctx).
		Where("segment_uuid = ?", segmentUUID).
		First(&seg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Errorf("Error query segment by uuid %v", err)
		return nil, err
	}
	return &seg, nil
}

// FindByVideo returns all segments of a source video for the poll read.
func (d *SegmentDAO) FindByVideo(ctx context.Context, userUUID, videoUUID string) ([]*po.Segment, error) {
	var segments []*po.Segment
	if err := d.db.WithContext(ctx).
		Where("user_uuid = ? AND video_uuid = ?", userUUID, videoUUID).
		Order("id ASC").
		Find(&segments).Error; err != nil {
		logger.Errorf("Error query segments by video %v", err)
		return nil, err
	}
	return segments, nil
}

// UpdateStatusFrom performs the guarded transition current→next. Returns
// whether a row actually changed.
func (d *SegmentDAO) UpdateStatusFrom(ctx context.Context, segmentUUID string, current, next vo.SegmentStatus, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = next.String()
	res := d.db.WithContext(ctx).
		Model(&po.Segment{}).
		Where("segment_uuid = ? AND status = ?", segmentUUID, current.String()).
		Updates(updates)
	if res.Error != nil {
		logger.Errorf("Error updating segment status %v", res.Error)
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ClaimComposite is the composite-stage admission write: completed→processing
// only while is_composited is still false.
func (d *SegmentDAO) ClaimComposite(ctx context.Context, segmentUUID, backgroundUUID string) (bool, error) {
	res := d.db.WithContext(ctx).
		Model(&po.Segment{}).
		Where("segment_uuid = ? AND status = ? AND is_composited = ?",
			segmentUUID, vo.SegmentStatusCompleted.String(), false).
		Updates(map[string]interface{}{
			"status":          vo.SegmentStatusProcessing.String(),
			"background_uuid": backgroundUUID,
		})
	if res.Error != nil {
		logger.Errorf("Error claiming composite %v", res.Error)
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FinishComposite records the combined asset and restores completed.
func (d *SegmentDAO) FinishComposite(ctx context.Context, segmentUUID, combinedURL string) error {
	res := d.db.WithContext(ctx).
		Model(&po.Segment{}).
		Where("segment_uuid = ? AND status = ?", segmentUUID, vo.SegmentStatusProcessing.String()).
		Updates(map[string]interface{}{
			"status":        vo.SegmentStatusCompleted.String(),
			"combined_url":  combinedURL,
			"is_composited": true,
			"message":       "",
		})
	if res.Error != nil {
		logger.Errorf("Error finishing composite %v", res.Error)
		return res.Error
	}
	return nil
}

// RevertComposite restores completed after a failed composite, leaving the
// original asset columns untouched.
func (d *SegmentDAO) RevertComposite(ctx context.Context, segmentUUID, message string) error {
	res := d.db.WithContext(ctx).
		Model(&po.Segment{}).
		Where("segment_uuid = ? AND status = ?", segmentUUID, vo.SegmentStatusProcessing.String()).
		Updates(map[string]interface{}{
			"status":  vo.SegmentStatusCompleted.String(),
			"message": message,
		})
	if res.Error != nil {
		logger.Errorf("Error reverting composite %v", res.Error)
		return res.Error
	}
	return nil
}

// FindStaleProcessing returns processing rows whose last update is older
// than the cutoff, for the supervisory sweep.
func (d *SegmentDAO) FindStaleProcessing(ctx context.Context, before time.Time, limit int) ([]*po.Segment, error) {
	return d.findStaleByStatus(ctx, vo.SegmentStatusProcessing, before, limit)
}

// FindStalePending returns pending rows whose last update is older than the
// cutoff. Their queue entry was lost (full queue, process restart), so no
// worker will ever claim them.
func (d *SegmentDAO) FindStalePending(ctx context.Context, before time.Time, limit int) ([]*po.Segment, error) {
	return d.findStaleByStatus(ctx, vo.SegmentStatusPending, before, limit)
}

func (d *SegmentDAO) findStaleByStatus(ctx context.Context, status vo.SegmentStatus, before time.Time, limit int) ([]*po.Segment, error) {
	var segments []*po.Segment
	query := d.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", status.String(), before).
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&segments).Error; err != nil {
		logger.Errorf("Error query stale %s segments %v", status.String(), err)
		return nil, err
	}
	return segments, nil
}
