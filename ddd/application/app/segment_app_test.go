package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"segment-service/ddd/application/cqe"
	"segment-service/ddd/domain/vo"
	"segment-service/ddd/infrastructure/database/dao"
	"segment-service/ddd/infrastructure/database/persistence"
	"segment-service/ddd/infrastructure/database/po"
	"segment-service/ddd/infrastructure/queue"
	"segment-service/pkg/config"
	"segment-service/pkg/errno"
)

type appFixture struct {
	db          *gorm.DB
	app         SegmentApp
	encodeQueue *queue.MemoryJobQueue
	compQueue   *queue.MemoryJobQueue
	creditDao   *dao.CreditDAO
}

func newAppFixture(t *testing.T, queueCapacity int) *appFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, dao.AutoMigrate(db))

	encodeQueue := queue.NewMemoryJobQueue(queueCapacity)
	compQueue := queue.NewMemoryJobQueue(queueCapacity)

	cfg := &config.Config{}
	cfg.Credits.CostPerSegment = 1

	segmentApp := NewSegmentAppWith(
		persistence.NewSegmentRepositoryOn(db),
		persistence.NewSourceVideoRepositoryOn(db),
		persistence.NewCreditRepositoryOn(db),
		persistence.NewBackgroundRepositoryOn(db),
		encodeQueue,
		compQueue,
		nil,
		cfg,
	)

	return &appFixture{
		db:          db,
		app:         segmentApp,
		encodeQueue: encodeQueue,
		compQueue:   compQueue,
		creditDao:   dao.NewCreditDAO(db),
	}
}

func (f *appFixture) seedVideo(t *testing.T, videoUUID, userUUID string, duration float64) {
	t.Helper()
	require.NoError(t, f.db.Create(&po.SourceVideo{
		VideoUUID:       videoUUID,
		UserUUID:        userUUID,
		Filename:        "source.mp4",
		StorageKey:      "uploads/" + videoUUID + ".mp4",
		DurationSeconds: duration,
		Status:          vo.VideoStatusCompleted.String(),
	}).Error)
}

func (f *appFixture) seedBackground(t *testing.T, assetUUID string) {
	t.Helper()
	require.NoError(t, f.db.Create(&po.BackgroundAsset{
		AssetUUID:  assetUUID,
		Name:       "gameplay loop",
		StorageKey: "backgrounds/" + assetUUID + ".mp4",
	}).Error)
}

func (f *appFixture) seedSegment(t *testing.T, segmentUUID, userUUID, status, fileURL string, composited bool) {
	t.Helper()
	require.NoError(t, f.db.Create(&po.Segment{
		SegmentUUID:  segmentUUID,
		UserUUID:     userUUID,
		VideoUUID:    "video-1",
		Name:         "cut",
		StartSeconds: 0,
		EndSeconds:   10,
		Status:       status,
		FileURL:      fileURL,
		IsComposited: composited,
	}).Error)
}

func batchReq(n int) *cqe.SubmitSegmentBatchReq {
	req := &cqe.SubmitSegmentBatchReq{VideoUUID: "video-1", UserUUID: "user-1"}
	names := []string{"intro", "hook", "outro", "bonus", "teaser"}
	for i := 0; i < n; i++ {
		req.Segments = append(req.Segments, cqe.SegmentInput{
			Name:         names[i%len(names)],
			StartSeconds: float64(i * 10),
			EndSeconds:   float64(i*10 + 8),
		})
	}
	return req
}

func TestSegmentApp_SubmitBatch(t *testing.T) {
	f := newAppFixture(t, 16)
	ctx := context.Background()

	f.seedVideo(t, "video-1", "user-1", 120)
	require.NoError(t, f.creditDao.Credit(ctx, "user-1", 10, "grant"))

	result, err := f.app.SubmitBatch(ctx, batchReq(3))
	require.NoError(t, err)
	require.Len(t, result.Segments, 3)
	assert.Equal(t, 3, result.CreditsCharged)
	assert.Equal(t, 7, result.RemainingCredits)
	for _, seg := range result.Segments {
		assert.Equal(t, vo.SegmentStatusPending.String(), seg.Status)
		assert.NotEmpty(t, seg.SegmentUUID)
	}

	// One encode job per accepted row.
	assert.Equal(t, 3, f.encodeQueue.Size())

	balance, err := f.creditDao.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 7, balance)
}

func TestSegmentApp_SubmitBatchInsufficientCredits(t *testing.T) {
	f := newAppFixture(t, 16)
	ctx := context.Background()

	f.seedVideo(t, "video-1", "user-1", 120)
	require.NoError(t, f.creditDao.Credit(ctx, "user-1", 2, "grant"))

	_, err := f.app.SubmitBatch(ctx, batchReq(3))
	assert.ErrorIs(t, err, errno.ErrInsufficientCredits)

	// Nothing was persisted and nothing was charged.
	var count int64
	require.NoError(t, f.db.Model(&po.Segment{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, f.encodeQueue.Size())

	balance, err := f.creditDao.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, balance)
}

func TestSegmentApp_SubmitBatchOutOfBoundsRejectsWholeBatch(t *testing.T) {
	f := newAppFixture(t, 16)
	ctx := context.Background()

	f.seedVideo(t, "video-1", "user-1", 15)
	require.NoError(t, f.creditDao.Credit(ctx, "user-1", 10, "grant"))

	// Second cut ends past the source duration; the first is valid but the
	// whole batch is refused before any debit.
	_, err := f.app.SubmitBatch(ctx, batchReq(3))
	assert.ErrorIs(t, err, errno.ErrTimeRangeOutOfBounds)

	var count int64
	require.NoError(t, f.db.Model(&po.Segment{}).Count(&count).Error)
	assert.Zero(t, count)

	balance, err := f.creditDao.Balance(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 10, balance)
}

func TestSegmentApp_SubmitBatchUnknownVideo(t *testing.T) {
	f := newAppFixture(t, 16)
	ctx := context.Background()

	_, err := f.app.SubmitBatch(ctx, batchReq(1))
	assert.ErrorIs(t, err, errno.ErrVideoNotFound)
}

func TestSegmentApp_SubmitBatchForeignVideo(t *testing.T) {
	f := newAppFixture(t, 16)
	ctx := context.Background()

	f.seedVideo(t, "video-1", "someone-else", 120)
	require.NoError(t, f.creditDao.Credit(ctx, "user-1", 10, "grant"))

	_, err := f.app.SubmitBatch(ctx, batchReq(1))
	assert.ErrorIs(t, err, errno.ErrVideoNotFound)
}

func TestSegmentApp_ListByVideo(t *testing.T) {
	f := newAppFixture(t, 16)
	ctx := context.Background()

	f.seedVideo(t, "video-1", "user-1", 120)
	require.NoError(t, f.creditDao.Credit(ctx, "user-1", 10, "grant"))
	_, err := f.app.SubmitBatch(ctx, batchReq(2))
	require.NoError(t, err)

	segments, err := f.app.ListByVideo(ctx, &cqe.ListSegmentsReq{VideoUUID: "video-1", UserUUID: "user-1"})
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "intro", segments[0].Name)
	assert.Equal(t, "hook", segments[1].Name)
}

func TestSegmentApp_RequestComposite(t *testing.T) {
	f := newAppFixture(t, 16)
	ctx := context.Background()

	f.seedVideo(t, "video-1", "user-1", 120)
	f.seedBackground(t, "bg-1")
	f.seedSegment(t, "seg-1", "user-1", vo.SegmentStatusCompleted.String(), "http://store/seg-1.mp4", false)

	result, err := f.app.RequestComposite(ctx, &cqe.RequestCompositeReq{
		SegmentUUID: "seg-1", UserUUID: "user-1", BackgroundUUID: "bg-1",
	})
	require.NoError(t, err)
	assert.Equal(t, vo.SegmentStatusProcessing.String(), result.Status)
	assert.Equal(t, 1, f.compQueue.Size())
}

func TestSegmentApp_RequestCompositeInvalidStates(t *testing.T) {
	f := newAppFixture(t, 16)
	ctx := context.Background()

	f.seedVideo(t, "video-1", "user-1", 120)
	f.seedBackground(t, "bg-1")

	tests := []struct {
		name        string
		segmentUUID string
		status      string
		composited  bool
	}{
		{"pending segment", "seg-p", vo.SegmentStatusPending.String(), false},
		{"processing segment", "seg-r", vo.SegmentStatusProcessing.String(), false},
		{"failed segment", "seg-f", vo.SegmentStatusFailed.String(), false},
		{"already composited", "seg-c", vo.SegmentStatusCompleted.String(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.seedSegment(t, tt.segmentUUID, "user-1", tt.status, "", tt.composited)
			_, err := f.app.RequestComposite(ctx, &cqe.RequestCompositeReq{
				SegmentUUID: tt.segmentUUID, UserUUID: "user-1", BackgroundUUID: "bg-1",
			})
			assert.ErrorIs(t, err, errno.ErrInvalidSegmentState)
		})
	}
	assert.Zero(t, f.compQueue.Size())
}

func TestSegmentApp_RequestCompositeUnknownBackground(t *testing.T) {
	f := newAppFixture(t, 16)
	ctx := context.Background()

	f.seedSegment(t, "seg-1", "user-1", vo.SegmentStatusCompleted.String(), "http://store/seg-1.mp4", false)

	_, err := f.app.RequestComposite(ctx, &cqe.RequestCompositeReq{
		SegmentUUID: "seg-1", UserUUID: "user-1", BackgroundUUID: "bg-missing",
	})
	assert.ErrorIs(t, err, errno.ErrBackgroundNotFound)
}

func TestSegmentApp_RequestCompositeForeignSegment(t *testing.T) {
	f := newAppFixture(t, 16)
	ctx := context.Background()

	f.seedBackground(t, "bg-1")
	f.seedSegment(t, "seg-1", "someone-else", vo.SegmentStatusCompleted.String(), "http://store/seg-1.mp4", false)

	_, err := f.app.RequestComposite(ctx, &cqe.RequestCompositeReq{
		SegmentUUID: "seg-1", UserUUID: "user-1", BackgroundUUID: "bg-1",
	})
	assert.ErrorIs(t, err, errno.ErrSegmentNotFound)
}

func TestSegmentApp_RequestCompositeQueueFullRestoresSegment(t *testing.T) {
	f := newAppFixture(t, 1)
	ctx := context.Background()

	f.seedBackground(t, "bg-1")
	f.seedSegment(t, "seg-1", "user-1", vo.SegmentStatusCompleted.String(), "http://store/seg-1.mp4", false)
	f.seedSegment(t, "seg-2", "user-1", vo.SegmentStatusCompleted.String(), "http://store/seg-2.mp4", false)

	_, err := f.app.RequestComposite(ctx, &cqe.RequestCompositeReq{
		SegmentUUID: "seg-1", UserUUID: "user-1", BackgroundUUID: "bg-1",
	})
	require.NoError(t, err)

	_, err = f.app.RequestComposite(ctx, &cqe.RequestCompositeReq{
		SegmentUUID: "seg-2", UserUUID: "user-1", BackgroundUUID: "bg-1",
	})
	require.Error(t, err)
	assert.Equal(t, errno.ErrQueueFull, errno.CodeOf(err))

	// The refused segment is restored: still completed, still compositable.
	var seg po.Segment
	require.NoError(t, f.db.Where("segment_uuid = ?", "seg-2").First(&seg).Error)
	assert.Equal(t, vo.SegmentStatusCompleted.String(), seg.Status)
	assert.Equal(t, "http://store/seg-2.mp4", seg.FileURL)
	assert.False(t, seg.IsComposited)
}

func TestSegmentApp_ListBackgrounds(t *testing.T) {
	f := newAppFixture(t, 16)

	f.seedBackground(t, "bg-1")
	f.seedBackground(t, "bg-2")

	assets, err := f.app.ListBackgrounds(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "bg-1", assets[0].AssetUUID)
}
