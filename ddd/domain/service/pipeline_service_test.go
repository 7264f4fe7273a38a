package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"segment-service/ddd/domain/entity"
	"segment-service/ddd/domain/repo"
	"segment-service/ddd/domain/vo"
	"segment-service/ddd/infrastructure/database/dao"
	"segment-service/ddd/infrastructure/database/persistence"
	"segment-service/ddd/infrastructure/database/po"
)

type stubExecutor struct {
	cutURL      string
	cutErr      error
	combinedURL string
	combinedErr error
}

func (s *stubExecutor) CutSegment(ctx context.Context, video *entity.SourceVideoEntity, segment *entity.SegmentEntity) (string, string, error) {
	if s.cutErr != nil {
		return "", "", s.cutErr
	}
	return segment.OutputObjectKey(), s.cutURL, nil
}

func (s *stubExecutor) CompositeSegment(ctx context.Context, segment *entity.SegmentEntity, background *entity.BackgroundAssetEntity) (string, string, error) {
	if s.combinedErr != nil {
		return "", "", s.combinedErr
	}
	return segment.CombinedObjectKey(), s.combinedURL, nil
}

type pipelineFixture struct {
	db          *gorm.DB
	segmentRepo repo.SegmentRepository
	executor    *stubExecutor
	pipeline    PipelineService
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, dao.AutoMigrate(db))

	executor := &stubExecutor{
		cutURL:      "http://store/out.mp4",
		combinedURL: "http://store/out_combined.mp4",
	}
	segmentRepo := persistence.NewSegmentRepositoryOn(db)
	pipeline := NewPipelineService(
		segmentRepo,
		persistence.NewSourceVideoRepositoryOn(db),
		persistence.NewBackgroundRepositoryOn(db),
		executor,
		nil,
	)
	return &pipelineFixture{db: db, segmentRepo: segmentRepo, executor: executor, pipeline: pipeline}
}

func (f *pipelineFixture) seed(t *testing.T) {
	t.Helper()
	require.NoError(t, f.db.Create(&po.SourceVideo{
		VideoUUID:       "video-1",
		UserUUID:        "user-1",
		Filename:        "source.mp4",
		StorageKey:      "uploads/video-1.mp4",
		DurationSeconds: 120,
		Status:          vo.VideoStatusCompleted.String(),
	}).Error)
	require.NoError(t, f.db.Create(&po.BackgroundAsset{
		AssetUUID:  "bg-1",
		Name:       "gameplay loop",
		StorageKey: "backgrounds/bg-1.mp4",
	}).Error)
}

func (f *pipelineFixture) seedSegment(t *testing.T, status string) {
	t.Helper()
	require.NoError(t, f.db.Create(&po.Segment{
		SegmentUUID:  "seg-1",
		UserUUID:     "user-1",
		VideoUUID:    "video-1",
		Name:         "cut",
		StartSeconds: 5,
		EndSeconds:   20,
		Status:       status,
	}).Error)
}

func (f *pipelineFixture) row(t *testing.T) *po.Segment {
	t.Helper()
	var seg po.Segment
	require.NoError(t, f.db.Where("segment_uuid = ?", "seg-1").First(&seg).Error)
	return &seg
}

func TestPipelineService_ExecuteEncodeSuccess(t *testing.T) {
	f := newPipelineFixture(t)
	f.seed(t)
	f.seedSegment(t, vo.SegmentStatusPending.String())

	require.NoError(t, f.pipeline.ExecuteEncode(context.Background(), "seg-1"))

	seg := f.row(t)
	assert.Equal(t, vo.SegmentStatusCompleted.String(), seg.Status)
	assert.Equal(t, "http://store/out.mp4", seg.FileURL)
	assert.Empty(t, seg.Message)
}

func TestPipelineService_ExecuteEncodeFailureIsIsolated(t *testing.T) {
	f := newPipelineFixture(t)
	f.seed(t)
	f.seedSegment(t, vo.SegmentStatusPending.String())
	f.executor.cutErr = errors.New("ffmpeg exited: exit status 1")

	err := f.pipeline.ExecuteEncode(context.Background(), "seg-1")
	assert.Error(t, err)

	seg := f.row(t)
	assert.Equal(t, vo.SegmentStatusFailed.String(), seg.Status)
	assert.Contains(t, seg.Message, "ffmpeg exited")
	assert.Empty(t, seg.FileURL)
}

func TestPipelineService_ExecuteEncodeSkipsUnclaimable(t *testing.T) {
	f := newPipelineFixture(t)
	f.seed(t)
	f.seedSegment(t, vo.SegmentStatusCompleted.String())

	// Not pending anymore: skipped without touching the row.
	require.NoError(t, f.pipeline.ExecuteEncode(context.Background(), "seg-1"))
	assert.Equal(t, vo.SegmentStatusCompleted.String(), f.row(t).Status)
}

func TestPipelineService_ExecuteEncodeMissingVideoFailsSegment(t *testing.T) {
	f := newPipelineFixture(t)
	f.seedSegment(t, vo.SegmentStatusPending.String())

	err := f.pipeline.ExecuteEncode(context.Background(), "seg-1")
	assert.Error(t, err)

	seg := f.row(t)
	assert.Equal(t, vo.SegmentStatusFailed.String(), seg.Status)
	assert.Equal(t, "source video unavailable", seg.Message)
}

func TestPipelineService_ExecuteCompositeSuccess(t *testing.T) {
	f := newPipelineFixture(t)
	f.seed(t)
	f.seedSegment(t, vo.SegmentStatusCompleted.String())
	require.NoError(t, f.db.Model(&po.Segment{}).
		Where("segment_uuid = ?", "seg-1").
		Update("file_url", "http://store/out.mp4").Error)

	claimed, err := f.segmentRepo.ClaimComposite(context.Background(), "seg-1", "bg-1")
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, f.pipeline.ExecuteComposite(context.Background(), "seg-1", "bg-1"))

	seg := f.row(t)
	assert.Equal(t, vo.SegmentStatusCompleted.String(), seg.Status)
	assert.Equal(t, "http://store/out.mp4", seg.FileURL)
	assert.Equal(t, "http://store/out_combined.mp4", seg.CombinedURL)
	assert.True(t, seg.IsComposited)
}

func TestPipelineService_ExecuteCompositeFailureIsNonDestructive(t *testing.T) {
	f := newPipelineFixture(t)
	f.seed(t)
	f.seedSegment(t, vo.SegmentStatusCompleted.String())
	require.NoError(t, f.db.Model(&po.Segment{}).
		Where("segment_uuid = ?", "seg-1").
		Update("file_url", "http://store/out.mp4").Error)

	claimed, err := f.segmentRepo.ClaimComposite(context.Background(), "seg-1", "bg-1")
	require.NoError(t, err)
	require.True(t, claimed)

	f.executor.combinedErr = errors.New("ffmpeg exited: exit status 1")
	err = f.pipeline.ExecuteComposite(context.Background(), "seg-1", "bg-1")
	assert.Error(t, err)

	// The original asset survives and the segment can be retried.
	seg := f.row(t)
	assert.Equal(t, vo.SegmentStatusCompleted.String(), seg.Status)
	assert.Equal(t, "http://store/out.mp4", seg.FileURL)
	assert.Empty(t, seg.CombinedURL)
	assert.False(t, seg.IsComposited)
}
