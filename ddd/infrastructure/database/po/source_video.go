package po

import "time"

// SourceVideo persistence object: an uploaded original.
type SourceVideo struct {
	BaseModel
	VideoUUID       string     `gorm:"column:video_uuid;type:varchar(36);uniqueIndex" json:"video_uuid"`
	UserUUID        string     `gorm:"column:user_uuid;type:varchar(36);index" json:"user_uuid"`
	Filename        string     `gorm:"column:filename;type:varchar(255)" json:"filename"`
	SizeBytes       int64      `gorm:"column:size_bytes" json:"size_bytes"`
	StorageKey      string     `gorm:"column:storage_key;type:varchar(512)" json:"storage_key"`
	DurationSeconds float64    `gorm:"column:duration_seconds" json:"duration_seconds"`
	Status          string     `gorm:"column:status;type:varchar(20);index" json:"status"`
	ExpiresAt       *time.Time `gorm:"column:expires_at" json:"expires_at"`
}

// TableName sets the table name.
func (SourceVideo) TableName() string {
	return "source_videos"
}
