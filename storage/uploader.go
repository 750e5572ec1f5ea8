package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// FileUploader stores fighter photos and similar binary assets under
// opaque keys and resolves them to public URLs.
type FileUploader interface {
	// UploadFile stores the content under a generated key inside prefix
	// and returns that key.
	UploadFile(ctx context.Context, reader io.Reader, size int64, contentType string, prefix string) (string, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

func buildObjectKey(prefix string, contentType string) string {
	ext := extensionForContentType(contentType)
	return fmt.Sprintf("%s/%d%s", prefix, time.Now().UnixNano(), ext)
}

func extensionForContentType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
