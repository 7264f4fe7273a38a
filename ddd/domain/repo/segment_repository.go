package repo

import (
	"context"
	"time"

	"segment-service/ddd/domain/entity"
)

// SegmentRepository persists segment rows. Status transitions are single
// conditional updates at the storage layer; the boolean returns report
// whether the guarded transition actually happened.
type SegmentRepository interface {
	// CreateBatch inserts all segments of one submission atomically.
	CreateBatch(ctx context.Context, segments []*entity.SegmentEntity) error

	// Get loads one segment by UUID, nil when absent.
	Get(ctx context.Context, segmentUUID string) (*entity.SegmentEntity, error)

	// ListByVideo returns the current snapshot of every segment of a source
	// video, the poll read.
	ListByVideo(ctx context.Context, userUUID, videoUUID string) ([]*entity.SegmentEntity, error)

	// ClaimProcessing moves pending→processing. False when the row was not
	// pending anymore.
	ClaimProcessing(ctx context.Context, segmentUUID string) (bool, error)

	// MarkCompleted moves processing→completed and sets file_url.
	MarkCompleted(ctx context.Context, segmentUUID, fileURL string) error

	// MarkFailed moves processing→failed with a message.
	MarkFailed(ctx context.Context, segmentUUID, message string) error

	// MarkFailedFromPending moves pending→failed, for rows that never made
	// it onto the queue.
	MarkFailedFromPending(ctx context.Context, segmentUUID, message string) error

	// ClaimComposite moves completed→processing for the composite stage,
	// guarded on is_composited=false. False when the guard did not hold.
	ClaimComposite(ctx context.Context, segmentUUID, backgroundUUID string) (bool, error)

	// FinishComposite sets combined_url, flips is_composited and restores
	// completed.
	FinishComposite(ctx context.Context, segmentUUID, combinedURL string) error

	// RevertComposite restores completed after a failed composite, leaving
	// file_url and is_composited untouched.
	RevertComposite(ctx context.Context, segmentUUID, message string) error

	// ListStaleProcessing returns processing rows not updated since the
	// cutoff, for the supervisory sweep.
	ListStaleProcessing(ctx context.Context, before time.Time, limit int) ([]*entity.SegmentEntity, error)

	// ListStalePending returns pending rows not updated since the cutoff,
	// rows whose queue entry was lost and that no worker will ever claim.
	ListStalePending(ctx context.Context, before time.Time, limit int) ([]*entity.SegmentEntity, error)
}
