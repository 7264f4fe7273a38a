package convertor

import (
	"segment-service/ddd/domain/entity"
	"segment-service/ddd/domain/vo"
	"segment-service/ddd/infrastructure/database/po"
)

// SegmentConvertor maps between segment PO and entity.
type SegmentConvertor struct{}

// NewSegmentConvertor creates a segment convertor.
func NewSegmentConvertor() *SegmentConvertor {
	return &SegmentConvertor{}
}

// ToEntity converts PO to entity.
func (c *SegmentConvertor) ToEntity(p *po.Segment) *entity.SegmentEntity {
	if p == nil {
		return nil
	}
	status, err := vo.NewSegmentStatusFromString(p.Status)
	if err != nil {
		status = vo.SegmentStatusPending
	}
	return entity.NewSegmentEntityWithDetails(
		p.Id,
		p.SegmentUUID,
		p.UserUUID,
		p.VideoUUID,
		p.Name,
		p.StartSeconds,
		p.EndSeconds,
		status,
		p.FileURL,
		p.BackgroundUUID,
		p.CombinedURL,
		p.IsComposited,
		p.Message,
		p.CreatedAt,
		p.UpdatedAt,
	)
}

// ToPO converts entity to PO.
func (c *SegmentConvertor) ToPO(e *entity.SegmentEntity) *po.Segment {
	if e == nil {
		return nil
	}
	return &po.Segment{
		BaseModel: po.BaseModel{
			Id:        e.ID(),
			CreatedAt: e.CreatedAt(),
			UpdatedAt: e.UpdatedAt(),
		},
		SegmentUUID:    e.SegmentUUID(),
		UserUUID:       e.UserUUID(),
		VideoUUID:      e.VideoUUID(),
		Name:           e.Name(),
		StartSeconds:   e.StartSeconds(),
		EndSeconds:     e.EndSeconds(),
		Status:         e.Status().String(),
		FileURL:        e.FileURL(),
		BackgroundUUID: e.BackgroundUUID(),
		CombinedURL:    e.CombinedURL(),
		IsComposited:   e.IsComposited(),
		Message:        e.ErrorMessage(),
	}
}
