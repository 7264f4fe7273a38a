package vo

import "fmt"

// SegmentStatus is the lifecycle state of one requested cut.
type SegmentStatus string

const (
	// SegmentStatusPending waiting for a worker.
	SegmentStatusPending SegmentStatus = "pending"
	// SegmentStatusProcessing a worker owns the row; also re-used while a
	// composite run is in flight (distinguished by file_url being set).
	SegmentStatusProcessing SegmentStatus = "processing"
	// SegmentStatusCompleted terminal success, file_url resolvable.
	SegmentStatusCompleted SegmentStatus = "completed"
	// SegmentStatusFailed terminal failure of the encode stage.
	SegmentStatusFailed SegmentStatus = "failed"
)

// IsValid checks the status is a known value.
func (s SegmentStatus) IsValid() bool {
	switch s {
	case SegmentStatusPending, SegmentStatusProcessing, SegmentStatusCompleted, SegmentStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the status string.
func (s SegmentStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further automatic transition occurs.
func (s SegmentStatus) IsTerminal() bool {
	return s == SegmentStatusCompleted || s == SegmentStatusFailed
}

// CanTransitionTo checks a transition against the status machine. The only
// exit from a terminal state is completed→processing for the guarded
// composite step; failed is final.
func (s SegmentStatus) CanTransitionTo(target SegmentStatus) bool {
	switch s {
	case SegmentStatusPending:
		// pending→failed covers rows that never made it onto the queue.
		return target == SegmentStatusProcessing || target == SegmentStatusFailed
	case SegmentStatusProcessing:
		return target == SegmentStatusCompleted || target == SegmentStatusFailed
	case SegmentStatusCompleted:
		return target == SegmentStatusProcessing
	case SegmentStatusFailed:
		return false
	default:
		return false
	}
}

// NewSegmentStatusFromString parses a stored status value.
func NewSegmentStatusFromString(s string) (SegmentStatus, error) {
	status := SegmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown segment status %q", s)
	}
	return status, nil
}
