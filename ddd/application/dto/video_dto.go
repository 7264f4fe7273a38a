package dto

import (
	"time"

	"segment-service/ddd/domain/entity"
)

// SourceVideoDto is the API view of a registered original.
type SourceVideoDto struct {
	VideoUUID       string  `json:"video_uuid"`
	Filename        string  `json:"filename"`
	SizeBytes       int64   `json:"size_bytes"`
	StorageKey      string  `json:"storage_key"`
	DurationSeconds float64 `json:"duration_seconds"`
	Status          string  `json:"status"`
	ExpiresAt       string  `json:"expires_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// NewSourceVideoDto converts a source video entity to its API view.
func NewSourceVideoDto(video *entity.SourceVideoEntity) *SourceVideoDto {
	if video == nil {
		return nil
	}
	d := &SourceVideoDto{
		VideoUUID:       video.VideoUUID(),
		Filename:        video.Filename(),
		SizeBytes:       video.SizeBytes(),
		StorageKey:      video.StorageKey(),
		DurationSeconds: video.DurationSeconds(),
		Status:          video.Status().String(),
		CreatedAt:       video.CreatedAt().Format(time.RFC3339),
	}
	if exp := video.ExpiresAt(); exp != nil {
		d.ExpiresAt = exp.Format(time.RFC3339)
	}
	return d
}

// BackgroundAssetDto is one catalog entry.
type BackgroundAssetDto struct {
	AssetUUID string `json:"asset_uuid"`
	Name      string `json:"name"`
}

// NewBackgroundAssetDtoList converts the catalog listing.
func NewBackgroundAssetDtoList(assets []*entity.BackgroundAssetEntity) []*BackgroundAssetDto {
	dtos := make([]*BackgroundAssetDto, 0, len(assets))
	for _, a := range assets {
		dtos = append(dtos, &BackgroundAssetDto{
			AssetUUID: a.AssetUUID(),
			Name:      a.Name(),
		})
	}
	return dtos
}
