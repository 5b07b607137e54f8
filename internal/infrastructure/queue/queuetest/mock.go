// Package queuetest cung cấp testify mock cho queue.Enqueuer
package queuetest

import (
	"context"

	"celebstyle-backend/internal/infrastructure/queue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockEnqueuer struct {
	mock.Mock
}

var _ queue.Enqueuer = (*MockEnqueuer)(nil)

func (m *MockEnqueuer) DeleteAssetPrefix(ctx context.Context, prefix, reason string) error {
	return m.Called(ctx, prefix, reason).Error(0)
}

func (m *MockEnqueuer) DeleteAssetKeys(ctx context.Context, keys []string, reason string) error {
	return m.Called(ctx, keys, reason).Error(0)
}

func (m *MockEnqueuer) GenerateThumbnails(ctx context.Context, outfitID uuid.UUID, keys []string) error {
	return m.Called(ctx, outfitID, keys).Error(0)
}
