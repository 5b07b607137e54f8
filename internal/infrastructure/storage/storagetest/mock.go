// Package storagetest cung cấp testify mock cho storage.AssetStore
package storagetest

import (
	"context"
	"strings"

	"celebstyle-backend/internal/infrastructure/storage"

	"github.com/stretchr/testify/mock"
)

const BaseURL = "http://assets.test/celebstyle-media"

type MockAssetStore struct {
	mock.Mock
}

var _ storage.AssetStore = (*MockAssetStore)(nil)

func (m *MockAssetStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockAssetStore) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockAssetStore) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Object), args.Error(1)
}

func (m *MockAssetStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockAssetStore) DeleteKeys(ctx context.Context, keys []string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockAssetStore) DeletePrefix(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

// KeyFromURL không cần stub: mọi URL dưới BaseURL đều thuộc store
func (m *MockAssetStore) KeyFromURL(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, BaseURL+"/") {
		return "", false
	}
	return strings.TrimPrefix(rawURL, BaseURL+"/"), true
}

// URLFor trả về public URL giả lập cho key
func URLFor(key string) string {
	return BaseURL + "/" + key
}
