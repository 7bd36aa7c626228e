package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// FileStorage is a testify mock of storage.FileStorage.
type FileStorage struct {
	mock.Mock
}

func (m *FileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	ret := m.Called(ctx, objectKey, contentType, expires)
	return ret.String(0), ret.Error(1)
}

func (m *FileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	ret := m.Called(ctx, objectKey, expires)
	return ret.String(0), ret.Error(1)
}

func (m *FileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return m.Called(ctx, objectKey).Error(0)
}
