package dao

import (
	"gorm.io/gorm"

	"segment-service/ddd/infrastructure/database/po"
)

// AutoMigrate creates or updates the pipeline tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&po.SourceVideo{},
		&po.Segment{},
		&po.CreditAccount{},
		&po.CreditTransaction{},
		&po.BackgroundAsset{},
	)
}
