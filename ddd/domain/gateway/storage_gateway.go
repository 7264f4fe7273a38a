package gateway

import "context"

// StorageGateway is the blob store adapter: opaque byte payloads under a key,
// globally readable via URL once uploaded.
type StorageGateway interface {
	// UploadFile uploads a local file under objectKey and returns the stored key.
	UploadFile(ctx context.Context, localPath, objectKey, contentType string) (string, error)

	// DownloadFile fetches an object into a local path.
	DownloadFile(ctx context.Context, objectKey, localPath string) error

	// PublicURL returns the stable public URL for a stored object.
	PublicURL(objectKey string) string
}
