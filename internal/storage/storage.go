package storage

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations.
// Learners upload their support documents straight to the provider through
// presigned URLs; the app only keeps object keys.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// SupportObjectKey builds the key of a new support document of a request,
// e.g. "supports/req_1a2b/5f0c....pdf". Only the extension of fileName is
// kept.
func SupportObjectKey(requestID, fileName string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(fileName, "\\", "/")))
	if len(ext) > 10 || strings.ContainsAny(ext, " /?#") {
		ext = ""
	}
	return path.Join("supports", requestID, uuid.NewString()+ext)
}

// IsSupportKeyOf reports whether key was issued for requestID.
func IsSupportKeyOf(key, requestID string) bool {
	return requestID != "" && strings.HasPrefix(key, path.Join("supports", requestID)+"/")
}
