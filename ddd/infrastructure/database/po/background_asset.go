package po

// BackgroundAsset persistence object: shared read-only catalog clip.
type BackgroundAsset struct {
	BaseModel
	AssetUUID  string `gorm:"column:asset_uuid;type:varchar(36);uniqueIndex" json:"asset_uuid"`
	Name       string `gorm:"column:name;type:varchar(255)" json:"name"`
	StorageKey string `gorm:"column:storage_key;type:varchar(512)" json:"storage_key"`
}

// TableName sets the table name.
func (BackgroundAsset) TableName() string {
	return "background_assets"
}
