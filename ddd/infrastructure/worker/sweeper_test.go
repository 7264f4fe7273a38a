package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"segment-service/ddd/domain/vo"
	"segment-service/ddd/infrastructure/database/dao"
	"segment-service/ddd/infrastructure/database/persistence"
	"segment-service/ddd/infrastructure/database/po"
	"segment-service/pkg/config"
)

func sweeperFixture(t *testing.T) (*gorm.DB, *StaleSweeper) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, dao.AutoMigrate(db))

	cfg := &config.Config{}
	cfg.Sweep.Interval = time.Minute
	cfg.Sweep.ProcessingTimeout = 30 * time.Minute

	return db, NewStaleSweeper(persistence.NewSegmentRepositoryOn(db), nil, cfg)
}

func seedProcessing(t *testing.T, db *gorm.DB, uuid, fileURL string, age time.Duration) {
	t.Helper()
	seg := &po.Segment{
		SegmentUUID: uuid,
		UserUUID:    "user-1",
		VideoUUID:   "video-1",
		Name:        "cut-" + uuid,
		EndSeconds:  10,
		Status:      vo.SegmentStatusProcessing.String(),
		FileURL:     fileURL,
	}
	require.NoError(t, db.Create(seg).Error)
	require.NoError(t, db.Model(seg).
		UpdateColumn("updated_at", time.Now().Add(-age)).Error)
}

func seedPending(t *testing.T, db *gorm.DB, uuid string, age time.Duration) {
	t.Helper()
	seg := &po.Segment{
		SegmentUUID: uuid,
		UserUUID:    "user-1",
		VideoUUID:   "video-1",
		Name:        "cut-" + uuid,
		EndSeconds:  10,
		Status:      vo.SegmentStatusPending.String(),
	}
	require.NoError(t, db.Create(seg).Error)
	require.NoError(t, db.Model(seg).
		UpdateColumn("updated_at", time.Now().Add(-age)).Error)
}

func TestStaleSweeper_FailsStaleEncodes(t *testing.T) {
	db, sweeper := sweeperFixture(t)

	seedProcessing(t, db, "seg-stale", "", time.Hour)
	seedProcessing(t, db, "seg-fresh", "", time.Minute)

	sweeper.sweepOnce(context.Background())

	var stale, fresh po.Segment
	require.NoError(t, db.Where("segment_uuid = ?", "seg-stale").First(&stale).Error)
	require.NoError(t, db.Where("segment_uuid = ?", "seg-fresh").First(&fresh).Error)

	assert.Equal(t, vo.SegmentStatusFailed.String(), stale.Status)
	assert.Equal(t, "processing timed out", stale.Message)
	assert.Equal(t, vo.SegmentStatusProcessing.String(), fresh.Status)
}

func TestStaleSweeper_RestoresStaleComposites(t *testing.T) {
	db, sweeper := sweeperFixture(t)

	// A processing row that already has a file_url is a stuck composite run;
	// the original asset must survive.
	seedProcessing(t, db, "seg-comp", "http://store/seg-comp.mp4", time.Hour)

	sweeper.sweepOnce(context.Background())

	var seg po.Segment
	require.NoError(t, db.Where("segment_uuid = ?", "seg-comp").First(&seg).Error)
	assert.Equal(t, vo.SegmentStatusCompleted.String(), seg.Status)
	assert.Equal(t, "http://store/seg-comp.mp4", seg.FileURL)
	assert.False(t, seg.IsComposited)
	assert.Equal(t, "composite timed out", seg.Message)
}

func TestStaleSweeper_FailsLostPendingRows(t *testing.T) {
	db, sweeper := sweeperFixture(t)

	// A pending row whose queue entry died with a previous process must not
	// stay pending forever.
	seedPending(t, db, "seg-lost", 24*time.Hour)
	seedPending(t, db, "seg-queued", time.Minute)

	sweeper.sweepOnce(context.Background())

	var lost, queued po.Segment
	require.NoError(t, db.Where("segment_uuid = ?", "seg-lost").First(&lost).Error)
	require.NoError(t, db.Where("segment_uuid = ?", "seg-queued").First(&queued).Error)

	assert.Equal(t, vo.SegmentStatusFailed.String(), lost.Status)
	assert.Equal(t, "pending timed out", lost.Message)
	assert.Equal(t, vo.SegmentStatusPending.String(), queued.Status)
}

func TestStaleSweeper_StartStop(t *testing.T) {
	_, sweeper := sweeperFixture(t)

	require.NoError(t, sweeper.Start(context.Background()))
	assert.True(t, sweeper.IsRunning())
	require.NoError(t, sweeper.Stop())
	assert.False(t, sweeper.IsRunning())
}
