package po

// Segment persistence object: one row per requested cut. The status column is
// the single authoritative status; workers update it with conditional writes.
type Segment struct {
	BaseModel
	SegmentUUID    string  `gorm:"column:segment_uuid;type:varchar(36);uniqueIndex" json:"segment_uuid"`
	UserUUID       string  `gorm:"column:user_uuid;type:varchar(36);index" json:"user_uuid"`
	VideoUUID      string  `gorm:"column:video_uuid;type:varchar(36);index" json:"video_uuid"`
	Name           string  `gorm:"column:name;type:varchar(255)" json:"name"`
	StartSeconds   float64 `gorm:"column:start_seconds" json:"start_seconds"`
	EndSeconds     float64 `gorm:"column:end_seconds" json:"end_seconds"`
	Status         string  `gorm:"column:status;type:varchar(20);index" json:"status"` // pending, processing, completed, failed
	FileURL        string  `gorm:"column:file_url;type:varchar(512)" json:"file_url"`
	BackgroundUUID string  `gorm:"column:background_uuid;type:varchar(36)" json:"background_uuid"`
	CombinedURL    string  `gorm:"column:combined_url;type:varchar(512)" json:"combined_url"`
	IsComposited   bool    `gorm:"column:is_composited" json:"is_composited"`
	Message        string  `gorm:"column:message;type:varchar(255)" json:"message"`
}

// TableName sets the table name.
func (Segment) TableName() string {
	return "segments"
}
