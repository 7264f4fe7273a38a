package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"

	"segment-service/ddd/domain/gateway"
	"segment-service/internal/resource"
	"segment-service/pkg/config"
	"segment-service/pkg/logger"
)

// MinioStorage implements gateway.StorageGateway on MinIO.
type MinioStorage struct {
	minioResource *resource.MinioResource
	cfg           *config.Config
}

// NewMinioStorage creates the blob store adapter.
func NewMinioStorage(minioResource *resource.MinioResource, cfg *config.Config) gateway.StorageGateway {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &MinioStorage{
		minioResource: minioResource,
		cfg:           cfg,
	}
}

// UploadFile uploads a local file and returns the stored object key.
func (s *MinioStorage) UploadFile(ctx context.Context, localPath, objectKey, contentType string) (string, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	file, err := os.Open(localPath)
	if err != nil {
		logger.Error("Failed to open local file", map[string]interface{}{
			"local_path": localPath,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("open local file failed: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		logger.Error("Failed to get file info", map[string]interface{}{
			"local_path": localPath,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("get file info failed: %w", err)
	}

	if contentType == "" {
		contentType = getContentTypeFromExtension(objectKey)
	}

	_, err = client.PutObject(ctx, bucketName, objectKey, file, fileInfo.Size(), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error("Failed to upload file to MinIO", map[string]interface{}{
			"local_path": localPath,
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("upload file to minio failed: %w", err)
	}

	logger.Info("File uploaded", map[string]interface{}{
		"object_key": objectKey,
		"size":       fileInfo.Size(),
	})
	return objectKey, nil
}

// DownloadFile fetches an object into a local path.
func (s *MinioStorage) DownloadFile(ctx context.Context, objectKey, localPath string) error {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("create local directory failed: %w", err)
	}

	if err := client.FGetObject(ctx, bucketName, objectKey, localPath, minio.GetObjectOptions{}); err != nil {
		logger.Error("Failed to download object from MinIO", map[string]interface{}{
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return fmt.Errorf("get object from minio failed: %w", err)
	}
	return nil
}

// PublicURL builds the stable public URL for a stored object.
func (s *MinioStorage) PublicURL(objectKey string) string {
	key := strings.TrimLeft(objectKey, "/")
	if key == "" {
		return ""
	}

	if s.cfg != nil {
		publicBase := strings.TrimSpace(s.cfg.Public.StorageBase)
		if publicBase != "" {
			if !strings.HasPrefix(publicBase, "http://") && !strings.HasPrefix(publicBase, "https://") {
				publicBase = "http://" + publicBase
			}
			return strings.TrimRight(publicBase, "/") + "/" + key
		}
	}

	scheme := "http"
	if s.cfg != nil && s.cfg.Minio.UseSSL {
		scheme = "https"
	}
	endpoint := ""
	if s.cfg != nil {
		endpoint = s.cfg.Minio.Endpoint
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, endpoint, s.minioResource.GetBucketName(), key)
}

func getContentTypeFromExtension(objectKey string) string {
	switch strings.ToLower(filepath.Ext(objectKey)) {
	case ".mp4":
		return "video/mp4"
	case ".m4a", ".aac":
		return "audio/aac"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
