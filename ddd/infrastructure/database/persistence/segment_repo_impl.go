package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"segment-service/ddd/domain/entity"
	"segment-service/ddd/domain/repo"
	"segment-service/ddd/domain/vo"
	"segment-service/ddd/infrastructure/database/convertor"
	"segment-service/ddd/infrastructure/database/dao"
	"segment-service/ddd/infrastructure/database/po"
)

type segmentRepositoryImpl struct {
	segmentDao *dao.SegmentDAO
	convertor  *convertor.SegmentConvertor
}

// NewSegmentRepository builds the segment repository on the shared DB.
func NewSegmentRepository() repo.SegmentRepository {
	return NewSegmentRepositoryWith(dao.DefaultSegmentDAO())
}

// NewSegmentRepositoryWith builds the repository on an injected DAO.
func NewSegmentRepositoryWith(segmentDao *dao.SegmentDAO) repo.SegmentRepository {
	return &segmentRepositoryImpl{
		segmentDao: segmentDao,
		convertor:  convertor.NewSegmentConvertor(),
	}
}

// NewSegmentRepositoryOn builds the repository on an injected gorm handle.
func NewSegmentRepositoryOn(db *gorm.DB) repo.SegmentRepository {
	return NewSegmentRepositoryWith(dao.NewSegmentDAO(db))
}

func (r *segmentRepositoryImpl) CreateBatch(ctx context.Context, segments []*entity.SegmentEntity) error {
	pos := make([]*po.Segment, 0, len(segments))
	for _, seg := range segments {
		pos = append(pos, r.convertor.ToPO(seg))
	}
	if err := r.segmentDao.CreateBatch(ctx, pos); err != nil {
		return err
	}
	for i, p := range pos {
		segments[i].SetID(p.Id)
	}
	return nil
}

func (r *segmentRepositoryImpl) Get(ctx context.Context, segmentUUID string) (*entity.SegmentEntity, error) {
	p, err := r.segmentDao.FindBySegmentUUID(ctx, segmentUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntity(p), nil
}

func (r *segmentRepositoryImpl) ListByVideo(ctx context.Context, userUUID, videoUUID string) ([]*entity.SegmentEntity, error) {
	pos, err := r.segmentDao.FindByVideo(ctx, userUUID, videoUUID)
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.SegmentEntity, 0, len(pos))
	for _, p := range pos {
		entities = append(entities, r.convertor.ToEntity(p))
	}
	return entities, nil
}

func (r *segmentRepositoryImpl) ClaimProcessing(ctx context.Context, segmentUUID string) (bool, error) {
	return r.segmentDao.UpdateStatusFrom(ctx, segmentUUID, vo.SegmentStatusPending, vo.SegmentStatusProcessing, nil)
}

func (r *segmentRepositoryImpl) MarkCompleted(ctx context.Context, segmentUUID, fileURL string) error {
	_, err := r.segmentDao.UpdateStatusFrom(ctx, segmentUUID, vo.SegmentStatusProcessing, vo.SegmentStatusCompleted,
		map[string]interface{}{"file_url": fileURL, "message": ""})
	return err
}

func (r *segmentRepositoryImpl) MarkFailed(ctx context.Context, segmentUUID, message string) error {
	_, err := r.segmentDao.UpdateStatusFrom(ctx, segmentUUID, vo.SegmentStatusProcessing, vo.SegmentStatusFailed,
		map[string]interface{}{"message": message})
	return err
}

func (r *segmentRepositoryImpl) MarkFailedFromPending(ctx context.Context, segmentUUID, message string) error {
	_, err := r.segmentDao.UpdateStatusFrom(ctx, segmentUUID, vo.SegmentStatusPending, vo.SegmentStatusFailed,
		map[string]interface{}{"message": message})
	return err
}

func (r *segmentRepositoryImpl) ClaimComposite(ctx context.Context, segmentUUID, backgroundUUID string) (bool, error) {
	return r.segmentDao.ClaimComposite(ctx, segmentUUID, backgroundUUID)
}

func (r *segmentRepositoryImpl) FinishComposite(ctx context.Context, segmentUUID, combinedURL string) error {
	return r.segmentDao.FinishComposite(ctx, segmentUUID, combinedURL)
}

func (r *segmentRepositoryImpl) RevertComposite(ctx context.Context, segmentUUID, message string) error {
	return r.segmentDao.RevertComposite(ctx, segmentUUID, message)
}

func (r *segmentRepositoryImpl) ListStaleProcessing(ctx context.Context, before time.Time, limit int) ([]*entity.SegmentEntity, error) {
	pos, err := r.segmentDao.FindStaleProcessing(ctx, before, limit)
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.SegmentEntity, 0, len(pos))
	for _, p := range pos {
		entities = append(entities, r.convertor.ToEntity(p))
	}
	return entities, nil
}

func (r *segmentRepositoryImpl) ListStalePending(ctx context.Context, before time.Time, limit int) ([]*entity.SegmentEntity, error) {
	pos, err := r.segmentDao.FindStalePending(ctx, before, limit)
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.SegmentEntity, 0, len(pos))
	for _, p := range pos {
		entities = append(entities, r.convertor.ToEntity(p))
	}
	return entities, nil
}
