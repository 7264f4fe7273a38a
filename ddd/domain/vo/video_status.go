package vo

// VideoStatus is the lifecycle state of an uploaded source video.
type VideoStatus string

const (
	VideoStatusPending    VideoStatus = "pending"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
)

// IsValid checks the status is a known value.
func (s VideoStatus) IsValid() bool {
	switch s {
	case VideoStatusPending, VideoStatusProcessing, VideoStatusCompleted, VideoStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the status string.
func (s VideoStatus) String() string {
	return string(s)
}

// Usable reports whether cuts may be submitted against this video.
func (s VideoStatus) Usable() bool {
	return s != VideoStatusFailed
}
