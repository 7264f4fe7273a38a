package entity

import "time"

// BackgroundAssetEntity is one clip in the shared, read-only background
// catalog. No per-user ownership.
type BackgroundAssetEntity struct {
	id         uint64
	assetUUID  string
	name       string
	storageKey string
	createdAt  time.Time
}

// NewBackgroundAssetEntityWithDetails rebuilds a catalog entry from stored state.
func NewBackgroundAssetEntityWithDetails(id uint64, assetUUID, name, storageKey string, createdAt time.Time) *BackgroundAssetEntity {
	return &BackgroundAssetEntity{
		id:         id,
		assetUUID:  assetUUID,
		name:       name,
		storageKey: storageKey,
		createdAt:  createdAt,
	}
}

func (b *BackgroundAssetEntity) ID() uint64         { return b.id }
func (b *BackgroundAssetEntity) AssetUUID() string  { return b.assetUUID }
func (b *BackgroundAssetEntity) Name() string       { return b.name }
func (b *BackgroundAssetEntity) StorageKey() string { return b.storageKey }
func (b *BackgroundAssetEntity) CreatedAt() time.Time { return b.createdAt }
