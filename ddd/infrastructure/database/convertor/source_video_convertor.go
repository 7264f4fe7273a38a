package convertor

import (
	"segment-service/ddd/domain/entity"
	"segment-service/ddd/domain/vo"
	"segment-service/ddd/infrastructure/database/po"
)

// SourceVideoConvertor maps between source video PO and entity.
type SourceVideoConvertor struct{}

// NewSourceVideoConvertor creates a source video convertor.
func NewSourceVideoConvertor() *SourceVideoConvertor {
	return &SourceVideoConvertor{}
}

// ToEntity converts PO to entity.
func (c *SourceVideoConvertor) ToEntity(p *po.SourceVideo) *entity.SourceVideoEntity {
	if p == nil {
		return nil
	}
	status := vo.VideoStatus(p.Status)
	if !status.IsValid() {
		status = vo.VideoStatusPending
	}
	return entity.NewSourceVideoEntityWithDetails(
		p.Id,
		p.VideoUUID,
		p.UserUUID,
		p.Filename,
		p.StorageKey,
		p.SizeBytes,
		p.DurationSeconds,
		status,
		p.ExpiresAt,
		p.CreatedAt,
		p.UpdatedAt,
	)
}

// ToPO converts entity to PO.
func (c *SourceVideoConvertor) ToPO(e *entity.SourceVideoEntity) *po.SourceVideo {
	if e == nil {
		return nil
	}
	return &po.SourceVideo{
		BaseModel: po.BaseModel{
			Id:        e.ID(),
			CreatedAt: e.CreatedAt(),
			UpdatedAt: e.UpdatedAt(),
		},
		VideoUUID:       e.VideoUUID(),
		UserUUID:        e.UserUUID(),
		Filename:        e.Filename(),
		SizeBytes:       e.SizeBytes(),
		StorageKey:      e.StorageKey(),
		DurationSeconds: e.DurationSeconds(),
		Status:          e.Status().String(),
		ExpiresAt:       e.ExpiresAt(),
	}
}
