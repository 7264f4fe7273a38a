package gateway

import "context"

// SegmentEvent is the lifecycle notification published for downstream
// services. Best-effort; the segment row stays the source of truth.
type SegmentEvent struct {
	Type        string `json:"type"` // created | completed | failed | composited
	SegmentUUID string `json:"segment_uuid"`
	VideoUUID   string `json:"video_uuid"`
	UserUUID    string `json:"user_uuid"`
	FileURL     string `json:"file_url,omitempty"`
	CombinedURL string `json:"combined_url,omitempty"`
	Message     string `json:"message,omitempty"`
}

// EventPublisher emits segment lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event SegmentEvent) error
}
