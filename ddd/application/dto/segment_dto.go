package dto

import (
	"time"

	"segment-service/ddd/domain/entity"
)

// SegmentDto is the API view of one segment row. Poll responses are a list
// of these; clients stop polling when no row is pending or processing.
type SegmentDto struct {
	SegmentUUID  string  `json:"segment_uuid"`
	VideoUUID    string  `json:"video_uuid"`
	Name         string  `json:"name"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	Status       string  `json:"status"`
	FileURL      string  `json:"file_url,omitempty"`
	CombinedURL  string  `json:"combined_url,omitempty"`
	IsComposited bool    `json:"is_composited"`
	Message      string  `json:"message,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// NewSegmentDto converts a segment entity to its API view.
func NewSegmentDto(segment *entity.SegmentEntity) *SegmentDto {
	if segment == nil {
		return nil
	}
	return &SegmentDto{
		SegmentUUID:  segment.SegmentUUID(),
		VideoUUID:    segment.VideoUUID(),
		Name:         segment.Name(),
		StartSeconds: segment.StartSeconds(),
		EndSeconds:   segment.EndSeconds(),
		Status:       segment.Status().String(),
		FileURL:      segment.FileURL(),
		CombinedURL:  segment.CombinedURL(),
		IsComposited: segment.IsComposited(),
		Message:      segment.ErrorMessage(),
		CreatedAt:    segment.CreatedAt().Format(time.RFC3339),
		UpdatedAt:    segment.UpdatedAt().Format(time.RFC3339),
	}
}

// NewSegmentDtoList converts a slice of segment entities.
func NewSegmentDtoList(segments []*entity.SegmentEntity) []*SegmentDto {
	dtos := make([]*SegmentDto, 0, len(segments))
	for _, s := range segments {
		dtos = append(dtos, NewSegmentDto(s))
	}
	return dtos
}

// SubmitBatchDto is the submission acknowledgment: the accepted rows and the
// balance after the debit.
type SubmitBatchDto struct {
	VideoUUID        string        `json:"video_uuid"`
	Segments         []*SegmentDto `json:"segments"`
	CreditsCharged   int           `json:"credits_charged"`
	RemainingCredits int           `json:"remaining_credits"`
}
