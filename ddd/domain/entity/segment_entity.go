package entity

import (
	"time"

	"github.com/google/uuid"

	"segment-service/ddd/domain/vo"
)

// SegmentEntity is one requested cut of a source video, tracked as an
// independent unit of work.
type SegmentEntity struct {
	id             uint64
	segmentUUID    string
	userUUID       string
	videoUUID      string
	name           string
	startSeconds   float64
	endSeconds     float64
	status         vo.SegmentStatus
	fileURL        string
	backgroundUUID string
	combinedURL    string
	isComposited   bool
	errorMessage   string
	createdAt      time.Time
	updatedAt      time.Time
}

// NewSegmentEntity creates a pending segment for a validated cut.
func NewSegmentEntity(userUUID, videoUUID, name string, startSeconds, endSeconds float64) *SegmentEntity {
	now := time.Now()
	return &SegmentEntity{
		segmentUUID:  uuid.New().String(),
		userUUID:     userUUID,
		videoUUID:    videoUUID,
		name:         name,
		startSeconds: startSeconds,
		endSeconds:   endSeconds,
		status:       vo.SegmentStatusPending,
		createdAt:    now,
		updatedAt:    now,
	}
}

// NewSegmentEntityWithDetails rebuilds a segment from stored state.
func NewSegmentEntityWithDetails(
	id uint64,
	segmentUUID, userUUID, videoUUID, name string,
	startSeconds, endSeconds float64,
	status vo.SegmentStatus,
	fileURL, backgroundUUID, combinedURL string,
	isComposited bool,
	errorMessage string,
	createdAt, updatedAt time.Time,
) *SegmentEntity {
	return &SegmentEntity{
		id:             id,
		segmentUUID:    segmentUUID,
		userUUID:       userUUID,
		videoUUID:      videoUUID,
		name:           name,
		startSeconds:   startSeconds,
		endSeconds:     endSeconds,
		status:         status,
		fileURL:        fileURL,
		backgroundUUID: backgroundUUID,
		combinedURL:    combinedURL,
		isComposited:   isComposited,
		errorMessage:   errorMessage,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (s *SegmentEntity) ID() uint64              { return s.id }
func (s *SegmentEntity) SetID(id uint64)         { s.id = id }
func (s *SegmentEntity) SegmentUUID() string     { return s.segmentUUID }
func (s *SegmentEntity) UserUUID() string        { return s.userUUID }
func (s *SegmentEntity) VideoUUID() string       { return s.videoUUID }
func (s *SegmentEntity) Name() string            { return s.name }
func (s *SegmentEntity) StartSeconds() float64   { return s.startSeconds }
func (s *SegmentEntity) EndSeconds() float64     { return s.endSeconds }
func (s *SegmentEntity) Status() vo.SegmentStatus { return s.status }
func (s *SegmentEntity) FileURL() string         { return s.fileURL }
func (s *SegmentEntity) BackgroundUUID() string  { return s.backgroundUUID }
func (s *SegmentEntity) CombinedURL() string     { return s.combinedURL }
func (s *SegmentEntity) IsComposited() bool      { return s.isComposited }
func (s *SegmentEntity) ErrorMessage() string    { return s.errorMessage }
func (s *SegmentEntity) CreatedAt() time.Time    { return s.createdAt }
func (s *SegmentEntity) UpdatedAt() time.Time    { return s.updatedAt }

// DurationSeconds is the cut length handed to the encoder.
func (s *SegmentEntity) DurationSeconds() float64 {
	return s.endSeconds - s.startSeconds
}

// OutputObjectKey is the blob store key for the encoded cut.
func (s *SegmentEntity) OutputObjectKey() string {
	return "segments/" + s.userUUID + "/" + s.segmentUUID + ".mp4"
}

// CombinedObjectKey is the blob store key for the composited asset.
func (s *SegmentEntity) CombinedObjectKey() string {
	return "segments/" + s.userUUID + "/" + s.segmentUUID + "_combined.mp4"
}
