package vo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status SegmentStatus
		want   bool
	}{
		{"pending valid", SegmentStatusPending, true},
		{"processing valid", SegmentStatusProcessing, true},
		{"completed valid", SegmentStatusCompleted, true},
		{"failed valid", SegmentStatusFailed, true},
		{"empty invalid", SegmentStatus(""), false},
		{"unknown invalid", SegmentStatus("done"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

func TestSegmentStatus_IsTerminal(t *testing.T) {
	assert.False(t, SegmentStatusPending.IsTerminal())
	assert.False(t, SegmentStatusProcessing.IsTerminal())
	assert.True(t, SegmentStatusCompleted.IsTerminal())
	assert.True(t, SegmentStatusFailed.IsTerminal())
}

func TestSegmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   SegmentStatus
		to     SegmentStatus
		want   bool
	}{
		{"pending to processing", SegmentStatusPending, SegmentStatusProcessing, true},
		{"pending to failed", SegmentStatusPending, SegmentStatusFailed, true},
		{"pending to completed", SegmentStatusPending, SegmentStatusCompleted, false},
		{"processing to completed", SegmentStatusProcessing, SegmentStatusCompleted, true},
		{"processing to failed", SegmentStatusProcessing, SegmentStatusFailed, true},
		{"processing to pending", SegmentStatusProcessing, SegmentStatusPending, false},
		{"completed back to processing for composite", SegmentStatusCompleted, SegmentStatusProcessing, true},
		{"completed to failed", SegmentStatusCompleted, SegmentStatusFailed, false},
		{"failed is final", SegmentStatusFailed, SegmentStatusProcessing, false},
		{"failed never completes", SegmentStatusFailed, SegmentStatusCompleted, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestNewSegmentStatusFromString(t *testing.T) {
	status, err := NewSegmentStatusFromString("processing")
	require.NoError(t, err)
	assert.Equal(t, SegmentStatusProcessing, status)

	_, err = NewSegmentStatusFromString("queued")
	assert.Error(t, err)
}
