package service

import (
	"context"

	"celebstyle-backend/internal/domains/celebrity/model"
	"celebstyle-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
)

// Uploads là các file ảnh đi kèm create/update (nil = không upload)
type Uploads struct {
	Image        *storage.File
	CoverImage   *storage.File
	InfoboxImage *storage.File
}

func (u Uploads) empty() bool {
	return u.Image == nil && u.CoverImage == nil && u.InfoboxImage == nil
}

type Service interface {
	List(ctx context.Context, filter model.ListFilter) ([]model.Celebrity, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Celebrity, error)
	GetBySlug(ctx context.Context, slug string) (*model.Celebrity, error)
	Create(ctx context.Context, req model.CreateCelebrityRequest, uploads Uploads) (*model.Celebrity, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateCelebrityRequest, uploads Uploads) (*model.Celebrity, error)

	// Delete từ chối khi còn outfit, trừ khi cascade = true
	Delete(ctx context.Context, id uuid.UUID, cascade bool) error

	ReconcileOutfitCounts(ctx context.Context) (int64, error)
}
