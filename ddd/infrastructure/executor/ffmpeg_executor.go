package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"segment-service/ddd/domain/entity"
	"segment-service/ddd/domain/gateway"
	"segment-service/ddd/domain/port"
	"segment-service/ddd/domain/vo"
	"segment-service/pkg/config"
	"segment-service/pkg/logger"
)

var (
	_ port.EncodeExecutor = (*FFmpegExecutor)(nil)
	_ port.MediaProber    = (*FFmpegExecutor)(nil)
)

// FFmpegExecutor implements port.EncodeExecutor using local ffmpeg and the
// storage gateway. It blocks for the whole subprocess run; the worker pool
// bounds concurrency.
type FFmpegExecutor struct {
	cfg     *config.Config
	storage gateway.StorageGateway
	profile vo.EncodeProfile
}

// NewFFmpegExecutor wires the executor against config and storage.
func NewFFmpegExecutor(cfg *config.Config, storage gateway.StorageGateway) *FFmpegExecutor {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &FFmpegExecutor{
		cfg:     cfg,
		storage: storage,
		profile: vo.DefaultVerticalProfile(),
	}
}

// CutSegment downloads the source, cuts the time range into the vertical
// profile, uploads the result, and cleans local files.
func (e *FFmpegExecutor) CutSegment(ctx context.Context, video *entity.SourceVideoEntity, segment *entity.SegmentEntity) (string, string, error) {
	if video == nil || segment == nil {
		return "", "", errors.New("nil source video or segment")
	}
	if e.storage == nil {
		return "", "", errors.New("storage gateway not configured")
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	localInput, localOutput, err := e.workPaths(segment.SegmentUUID(), video.StorageKey(), ".mp4")
	if err != nil {
		return "", "", err
	}
	defer func() {
		_ = os.Remove(localInput)
		_ = os.Remove(localOutput)
	}()

	if err := e.storage.DownloadFile(ctx, video.StorageKey(), localInput); err != nil {
		return "", "", fmt.Errorf("download input: %w", err)
	}

	cmd := e.buildCutCommand(ctx, segment, localInput, localOutput)
	logger.Infof("ffmpeg cut command segment_uuid=%s command=%s", segment.SegmentUUID(), strings.Join(cmd.Args, " "))
	if err := e.runFFmpeg(ctx, cmd); err != nil {
		return "", "", err
	}

	objectKey := segment.OutputObjectKey()
	uploadedKey, err := e.storage.UploadFile(ctx, localOutput, objectKey, "video/mp4")
	if err != nil {
		return "", "", fmt.Errorf("upload output: %w", err)
	}
	return uploadedKey, e.storage.PublicURL(uploadedKey), nil
}

// CompositeSegment downloads the segment's own asset and the background clip,
// stacks them, uploads the combined asset, and cleans local files.
func (e *FFmpegExecutor) CompositeSegment(ctx context.Context, segment *entity.SegmentEntity, background *entity.BackgroundAssetEntity) (string, string, error) {
	if segment == nil || background == nil {
		return "", "", errors.New("nil segment or background asset")
	}
	if e.storage == nil {
		return "", "", errors.New("storage gateway not configured")
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	localSegment, localOutput, err := e.workPaths(segment.SegmentUUID()+"_combined", segment.OutputObjectKey(), ".mp4")
	if err != nil {
		return "", "", err
	}
	localBackground := localSegment + ".bg.mp4"
	defer func() {
		_ = os.Remove(localSegment)
		_ = os.Remove(localBackground)
		_ = os.Remove(localOutput)
	}()

	if err := e.storage.DownloadFile(ctx, segment.OutputObjectKey(), localSegment); err != nil {
		return "", "", fmt.Errorf("download segment asset: %w", err)
	}
	if err := e.storage.DownloadFile(ctx, background.StorageKey(), localBackground); err != nil {
		return "", "", fmt.Errorf("download background asset: %w", err)
	}

	cmd := e.buildCompositeCommand(ctx, localSegment, localBackground, localOutput)
	logger.Infof("ffmpeg composite command segment_uuid=%s command=%s", segment.SegmentUUID(), strings.Join(cmd.Args, " "))
	if err := e.runFFmpeg(ctx, cmd); err != nil {
		return "", "", err
	}

	objectKey := segment.CombinedObjectKey()
	uploadedKey, err := e.storage.UploadFile(ctx, localOutput, objectKey, "video/mp4")
	if err != nil {
		return "", "", fmt.Errorf("upload combined output: %w", err)
	}
	return uploadedKey, e.storage.PublicURL(uploadedKey), nil
}

func (e *FFmpegExecutor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := e.cfg.Transcode.FFmpeg.Timeout
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (e *FFmpegExecutor) workPaths(unit, inputKey, outExt string) (string, string, error) {
	tempDir := os.TempDir()
	if dir := strings.TrimSpace(e.cfg.Transcode.FFmpeg.TempDir); dir != "" {
		tempDir = dir
	}
	localInput := filepath.Join(tempDir, "inputs", fmt.Sprintf("input_%s_%s", unit, filepath.Base(inputKey)))
	localOutput := filepath.Join(tempDir, "outputs", unit+outExt)
	if err := os.MkdirAll(filepath.Dir(localInput), 0o755); err != nil {
		return "", "", fmt.Errorf("create temp dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(localOutput), 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}
	return localInput, localOutput, nil
}

// buildCutCommand builds the cut invocation: seek to the start, take the cut
// duration, scale-to-fit with letterbox padding into the vertical frame.
func (e *FFmpegExecutor) buildCutCommand(ctx context.Context, segment *entity.SegmentEntity, inputPath, outputPath string) *exec.Cmd {
	ff := e.cfg.Transcode.FFmpeg

	args := []string{
		"-ss", formatSeconds(segment.StartSeconds()),
		"-t", formatSeconds(segment.DurationSeconds()),
		"-i", inputPath,
		"-vf", e.profile.ScalePadFilter(),
		"-c:v", ff.VideoCodec,
		"-preset", ff.VideoPreset,
		"-c:a", e.profile.AudioCodec,
		"-b:a", e.profile.AudioBitrate,
		"-movflags", "+faststart",
		"-nostats",
	}
	if ff.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(ff.Threads))
	}
	args = append(args, "-y", outputPath)

	return exec.CommandContext(ctx, ff.BinaryPath, args...)
}

// buildCompositeCommand builds the stack invocation: segment on top,
// background below, audio taken from the segment.
func (e *FFmpegExecutor) buildCompositeCommand(ctx context.Context, segmentPath, backgroundPath, outputPath string) *exec.Cmd {
	ff := e.cfg.Transcode.FFmpeg

	args := []string{
		"-i", segmentPath,
		"-stream_loop", "-1",
		"-i", backgroundPath,
		"-filter_complex", e.profile.StackFilter(),
		"-map", "[v]",
		"-map", "0:a?",
		"-shortest",
		"-c:v", ff.VideoCodec,
		"-preset", ff.VideoPreset,
		"-c:a", e.profile.AudioCodec,
		"-b:a", e.profile.AudioBitrate,
		"-movflags", "+faststart",
		"-nostats",
	}
	if ff.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(ff.Threads))
	}
	args = append(args, "-y", outputPath)

	return exec.CommandContext(ctx, ff.BinaryPath, args...)
}

// runFFmpeg starts the process, captures a stderr tail for diagnostics, and
// kills it on context cancellation.
func (e *FFmpegExecutor) runFFmpeg(ctx context.Context, cmd *exec.Cmd) error {
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("create ffmpeg stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	captureDone := make(chan struct{})
	buf := make([]string, 0, 200)
	go func() {
		defer close(captureDone)
		scanStderrTail(stderr, &buf)
	}()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-captureDone
		<-done
		return ctx.Err()
	case err := <-done:
		<-captureDone
		if err != nil {
			tail := buf
			if n := len(tail); n > 50 {
				tail = tail[n-50:]
			}
			if len(tail) > 0 {
				logger.Errorf("ffmpeg failed tail_stderr=%s", strings.Join(tail, "\n"))
			}
			return fmt.Errorf("ffmpeg exited: %w", err)
		}
		return nil
	}
}

func scanStderrTail(stderr io.ReadCloser, capture *[]string) {
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	for scanner.Scan() {
		b := *capture
		if len(b) >= 200 {
			b = b[1:]
		}
		b = append(b, scanner.Text())
		*capture = b
	}
}

// ProbeDuration downloads a stored object and reads its duration via ffprobe.
func (e *FFmpegExecutor) ProbeDuration(ctx context.Context, storageKey string) (float64, error) {
	if e.storage == nil {
		return 0, errors.New("storage gateway not configured")
	}

	tempDir := os.TempDir()
	if dir := strings.TrimSpace(e.cfg.Transcode.FFmpeg.TempDir); dir != "" {
		tempDir = dir
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return 0, fmt.Errorf("create temp dir: %w", err)
	}
	f, err := os.CreateTemp(tempDir, "probe_*"+filepath.Ext(storageKey))
	if err != nil {
		return 0, fmt.Errorf("create probe file: %w", err)
	}
	localInput := f.Name()
	_ = f.Close()
	defer func() { _ = os.Remove(localInput) }()

	if err := e.storage.DownloadFile(ctx, storageKey, localInput); err != nil {
		return 0, fmt.Errorf("download input: %w", err)
	}

	duration := e.ProbeDurationSeconds(localInput)
	if duration <= 0 {
		return 0, fmt.Errorf("ffprobe could not read duration of %s", storageKey)
	}
	return duration, nil
}

// ProbeDurationSeconds asks ffprobe for a local file's duration, 0 on failure.
func (e *FFmpegExecutor) ProbeDurationSeconds(inputPath string) float64 {
	cmd := exec.Command(e.cfg.Transcode.FFmpeg.ProbePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0
	}
	return val
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
