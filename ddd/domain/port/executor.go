package port

import (
	"context"

	"segment-service/ddd/domain/entity"
)

// EncodeExecutor invokes the external encoder process. Implementations block
// for the full duration of the subprocess; the worker pool bounds how many
// run at once.
type EncodeExecutor interface {
	// CutSegment transcodes one cut of the source into the vertical output
	// profile and uploads it. Returns the stored object key and public URL.
	CutSegment(ctx context.Context, video *entity.SourceVideoEntity, segment *entity.SegmentEntity) (string, string, error)

	// CompositeSegment stacks a completed segment over a background clip and
	// uploads the combined asset. Returns the stored object key and public URL.
	CompositeSegment(ctx context.Context, segment *entity.SegmentEntity, background *entity.BackgroundAssetEntity) (string, string, error)
}

// MediaProber inspects stored media.
type MediaProber interface {
	// ProbeDuration reports the duration in seconds of a stored object.
	ProbeDuration(ctx context.Context, storageKey string) (float64, error)
}
