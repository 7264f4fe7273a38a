package app

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

	"segment-service/ddd/application/cqe"
	"segment-service/ddd/infrastructure/database/dao"
	"segment-service/ddd/infrastructure/database/persistence"
	"segment-service/ddd/infrastructure/database/po"
	"segment-service/pkg/errno"
)

type stubProber struct {
	duration float64
	err      error
	calls    int
}

func (p *stubProber) ProbeDuration(ctx context.Context, storageKey string) (float64, error) {
	p.calls++
	return p.duration, p.err
}

func newVideoFixture(t *testing.T, prober *stubProber) (*gorm.DB, VideoApp) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, dao.AutoMigrate(db))

	if prober == nil {
		return db, NewVideoAppWith(persistence.NewSourceVideoRepositoryOn(db), nil)
	}
	return db, NewVideoAppWith(persistence.NewSourceVideoRepositoryOn(db), prober)
}

func registerReq(duration float64) *cqe.RegisterSourceVideoReq {
	return &cqe.RegisterSourceVideoReq{
		UserUUID:        "user-1",
		Filename:        "source.mp4",
		SizeBytes:       1024,
		StorageKey:      "uploads/source.mp4",
		DurationSeconds: duration,
	}
}

func TestVideoApp_RegisterWithClientDuration(t *testing.T) {
	prober := &stubProber{duration: 99}
	_, videoApp := newVideoFixture(t, prober)

	result, err := videoApp.Register(context.Background(), registerReq(42.5))
	require.NoError(t, err)

	assert.Equal(t, 42.5, result.DurationSeconds)
	assert.Zero(t, prober.calls)
}

func TestVideoApp_RegisterProbesMissingDuration(t *testing.T) {
	prober := &stubProber{duration: 37.25}
	db, videoApp := newVideoFixture(t, prober)

	result, err := videoApp.Register(context.Background(), registerReq(0))
	require.NoError(t, err)

	assert.Equal(t, 37.25, result.DurationSeconds)
	assert.Equal(t, 1, prober.calls)

	var stored po.SourceVideo
	require.NoError(t, db.Where("video_uuid = ?", result.VideoUUID).First(&stored).Error)
	assert.Equal(t, 37.25, stored.DurationSeconds)
}

func TestVideoApp_RegisterProbeFailure(t *testing.T) {
	prober := &stubProber{err: errors.New("ffprobe exited 1")}
	db, videoApp := newVideoFixture(t, prober)

	_, err := videoApp.Register(context.Background(), registerReq(0))
	require.Error(t, err)
	assert.Equal(t, errno.ErrInvalidVideoDuration, errno.CodeOf(err))

	var count int64
	require.NoError(t, db.Model(&po.SourceVideo{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestVideoApp_RegisterNegativeDuration(t *testing.T) {
	_, videoApp := newVideoFixture(t, &stubProber{duration: 10})

	_, err := videoApp.Register(context.Background(), registerReq(-1))
	assert.ErrorIs(t, err, errno.ErrInvalidVideoDuration)
}

func TestVideoApp_RegisterWithoutProberRequiresDuration(t *testing.T) {
	_, videoApp := newVideoFixture(t, nil)

	_, err := videoApp.Register(context.Background(), registerReq(0))
	assert.ErrorIs(t, err, errno.ErrInvalidVideoDuration)
}
