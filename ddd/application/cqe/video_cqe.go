package cqe

import (
	"strings"

	"segment-service/pkg/errno"
)

// RegisterSourceVideoReq registers an already-uploaded original. The upload
// itself goes straight to blob storage; this records the metadata row.
type RegisterSourceVideoReq struct {
	UserUUID        string  `json:"-"`
	Filename        string  `json:"filename"`
	SizeBytes       int64   `json:"size_bytes"`
	StorageKey      string  `json:"storage_key"`
	DurationSeconds float64 `json:"duration_seconds"`
}

func (r *RegisterSourceVideoReq) Validate() error {
	if strings.TrimSpace(r.UserUUID) == "" {
		return errno.ErrUserUUIDRequired
	}
	if strings.TrimSpace(r.Filename) == "" || strings.TrimSpace(r.StorageKey) == "" {
		return errno.ErrSourceVideoRequired
	}
	// Zero means "probe it"; only negatives are rejected outright.
	if r.DurationSeconds < 0 {
		return errno.ErrInvalidVideoDuration
	}
	return nil
}

// GetSourceVideoReq loads one registered original.
type GetSourceVideoReq struct {
	VideoUUID string `uri:"video_uuid"`
	UserUUID  string `json:"-"`
}

func (r *GetSourceVideoReq) Validate() error {
	if strings.TrimSpace(r.UserUUID) == "" {
		return errno.ErrUserUUIDRequired
	}
	if strings.TrimSpace(r.VideoUUID) == "" {
		return errno.ErrVideoUUIDRequired
	}
	return nil
}
