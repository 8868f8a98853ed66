package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

var _ catalogapp.ImageStorage = (*StubImageStorage)(nil)

// StubImageStorage is a no-op image storage for local development and
// tests. It hands out fake URLs and logs each call.
type StubImageStorage struct {
	BaseURL string
	logger  *zap.Logger
}

// NewStubImageStorage creates a stub storage backend
func NewStubImageStorage(logger *zap.Logger) *StubImageStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubImageStorage{
		BaseURL: "https://storage.local",
		logger:  logger,
	}
}

func (s *StubImageStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	s.logger.Debug("Stub storage: generated upload URL",
		zap.String("storage_key", storageKey),
		zap.String("content_type", contentType),
	)
	return s.BaseURL + "/upload/" + storageKey, time.Now().Add(expiresIn), nil
}

func (s *StubImageStorage) PublicURL(storageKey string) string {
	return s.BaseURL + "/" + storageKey
}

func (s *StubImageStorage) DeleteObject(ctx context.Context, storageKey string) error {
	s.logger.Debug("Stub storage: deleted object", zap.String("storage_key", storageKey))
	return nil
}

func (s *StubImageStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	return true, nil
}
