package persistence

import (
	"context"

	"gorm.io/gorm"

	"segment-service/ddd/domain/entity"
	"segment-service/ddd/domain/repo"
	"segment-service/ddd/domain/vo"
	"segment-service/ddd/infrastructure/database/convertor"
	"segment-service/ddd/infrastructure/database/dao"
)

type sourceVideoRepositoryImpl struct {
	videoDao  *dao.SourceVideoDAO
	convertor *convertor.SourceVideoConvertor
}

// NewSourceVideoRepository builds the source video repository on the shared DB.
func NewSourceVideoRepository() repo.SourceVideoRepository {
	return NewSourceVideoRepositoryWith(dao.DefaultSourceVideoDAO())
}

// NewSourceVideoRepositoryWith builds the repository on an injected DAO.
func NewSourceVideoRepositoryWith(videoDao *dao.SourceVideoDAO) repo.SourceVideoRepository {
	return &sourceVideoRepositoryImpl{
		videoDao:  videoDao,
		convertor: convertor.NewSourceVideoConvertor(),
	}
}

// NewSourceVideoRepositoryOn builds the repository on an injected gorm handle.
func NewSourceVideoRepositoryOn(db *gorm.DB) repo.SourceVideoRepository {
	return NewSourceVideoRepositoryWith(dao.NewSourceVideoDAO(db))
}

func (r *sourceVideoRepositoryImpl) Create(ctx context.Context, video *entity.SourceVideoEntity) error {
	p := r.convertor.ToPO(video)
	if err := r.videoDao.Create(ctx, p); err != nil {
		return err
	}
	video.SetID(p.Id)
	return nil
}

func (r *sourceVideoRepositoryImpl) Get(ctx context.Context, videoUUID string) (*entity.SourceVideoEntity, error) {
	p, err := r.videoDao.FindByVideoUUID(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntity(p), nil
}

func (r *sourceVideoRepositoryImpl) UpdateStatus(ctx context.Context, videoUUID string, status vo.VideoStatus) error {
	return r.videoDao.UpdateStatus(ctx, videoUUID, status.String())
}
