package entity

import (
	"time"

	"github.com/google/uuid"

	"segment-service/ddd/domain/vo"
)

// SourceVideoEntity is an uploaded original. Read-only after upload except
// for status and expiry; a retention sweep elsewhere deletes expired rows.
type SourceVideoEntity struct {
	id              uint64
	videoUUID       string
	userUUID        string
	filename        string
	sizeBytes       int64
	storageKey      string
	durationSeconds float64
	status          vo.VideoStatus
	expiresAt       *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

// NewSourceVideoEntity registers an uploaded original.
func NewSourceVideoEntity(userUUID, filename, storageKey string, sizeBytes int64, durationSeconds float64) *SourceVideoEntity {
	now := time.Now()
	return &SourceVideoEntity{
		videoUUID:       uuid.New().String(),
		userUUID:        userUUID,
		filename:        filename,
		sizeBytes:       sizeBytes,
		storageKey:      storageKey,
		durationSeconds: durationSeconds,
		status:          vo.VideoStatusPending,
		createdAt:       now,
		updatedAt:       now,
	}
}

// NewSourceVideoEntityWithDetails rebuilds a source video from stored state.
func NewSourceVideoEntityWithDetails(
	id uint64,
	videoUUID, userUUID, filename, storageKey string,
	sizeBytes int64, durationSeconds float64,
	status vo.VideoStatus, expiresAt *time.Time,
	createdAt, updatedAt time.Time,
) *SourceVideoEntity {
	return &SourceVideoEntity{
		id:              id,
		videoUUID:       videoUUID,
		userUUID:        userUUID,
		filename:        filename,
		sizeBytes:       sizeBytes,
		storageKey:      storageKey,
		durationSeconds: durationSeconds,
		status:          status,
		expiresAt:       expiresAt,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (v *SourceVideoEntity) ID() uint64               { return v.id }
func (v *SourceVideoEntity) SetID(id uint64)          { v.id = id }
func (v *SourceVideoEntity) VideoUUID() string        { return v.videoUUID }
func (v *SourceVideoEntity) UserUUID() string         { return v.userUUID }
func (v *SourceVideoEntity) Filename() string         { return v.filename }
func (v *SourceVideoEntity) SizeBytes() int64         { return v.sizeBytes }
func (v *SourceVideoEntity) StorageKey() string       { return v.storageKey }
func (v *SourceVideoEntity) DurationSeconds() float64 { return v.durationSeconds }
func (v *SourceVideoEntity) Status() vo.VideoStatus   { return v.status }
func (v *SourceVideoEntity) ExpiresAt() *time.Time    { return v.expiresAt }
func (v *SourceVideoEntity) CreatedAt() time.Time     { return v.createdAt }
func (v *SourceVideoEntity) UpdatedAt() time.Time     { return v.updatedAt }

func (v *SourceVideoEntity) SetStatus(status vo.VideoStatus) {
	v.status = status
	v.updatedAt = time.Now()
}

func (v *SourceVideoEntity) SetExpiresAt(t time.Time) {
	v.expiresAt = &t
	v.updatedAt = time.Now()
}

// OwnedBy checks caller ownership.
func (v *SourceVideoEntity) OwnedBy(userUUID string) bool {
	return v.userUUID == userUUID
}
