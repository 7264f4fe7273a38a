package cqe

import (
	"strings"

	"segment-service/pkg/errno"
)

// SegmentInput is one requested cut within a batch.
type SegmentInput struct {
	Name         string  `json:"name"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
}

// SubmitSegmentBatchReq submits a batch of cuts against one source video.
// Validation is batch-atomic: one bad cut rejects the whole request before
// any credit moves.
type SubmitSegmentBatchReq struct {
	VideoUUID string         `uri:"video_uuid" json:"-"`
	UserUUID  string         `json:"-"`
	Segments  []SegmentInput `json:"segments"`
}

func (r *SubmitSegmentBatchReq) Validate() error {
	if strings.TrimSpace(r.UserUUID) == "" {
		return errno.ErrUserUUIDRequired
	}
	if strings.TrimSpace(r.VideoUUID) == "" {
		return errno.ErrVideoUUIDRequired
	}
	if len(r.Segments) == 0 {
		return errno.ErrEmptyBatch
	}

	seen := make(map[string]struct{}, len(r.Segments))
	for _, seg := range r.Segments {
		name := strings.TrimSpace(seg.Name)
		if name == "" {
			return errno.ErrSegmentNameRequired
		}
		if _, dup := seen[name]; dup {
			return errno.ErrSegmentNameDuplicate
		}
		seen[name] = struct{}{}

		if seg.StartSeconds < 0 || seg.EndSeconds <= seg.StartSeconds {
			return errno.ErrInvalidTimeRange
		}
	}
	return nil
}

// ListSegmentsReq is the poll read for one source video.
type ListSegmentsReq struct {
	VideoUUID string `uri:"video_uuid"`
	UserUUID  string `json:"-"`
}

func (r *ListSegmentsReq) Validate() error {
	if strings.TrimSpace(r.UserUUID) == "" {
		return errno.ErrUserUUIDRequired
	}
	if strings.TrimSpace(r.VideoUUID) == "" {
		return errno.ErrVideoUUIDRequired
	}
	return nil
}

// RequestCompositeReq asks for the composite stage on a completed segment.
type RequestCompositeReq struct {
	SegmentUUID    string `uri:"segment_uuid" json:"-"`
	UserUUID       string `json:"-"`
	BackgroundUUID string `json:"background_uuid"`
}

func (r *RequestCompositeReq) Validate() error {
	if strings.TrimSpace(r.UserUUID) == "" {
		return errno.ErrUserUUIDRequired
	}
	if strings.TrimSpace(r.SegmentUUID) == "" {
		return errno.ErrSegmentUUIDRequired
	}
	if strings.TrimSpace(r.BackgroundUUID) == "" {
		return errno.ErrBackgroundRequired
	}
	return nil
}
