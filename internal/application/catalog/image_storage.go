package catalog

import (
	"context"
	"time"
)

// ImageStorage abstracts the object storage backend used for product
// images. Uploads happen directly from the client via presigned URLs.
type ImageStorage interface {
	// GenerateUploadURL returns a presigned PUT URL for the given key
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// PublicURL returns the URL an uploaded image is served from
	PublicURL(storageKey string) string

	// DeleteObject removes an image from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists reports whether an image exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}
