package service

import (
	"context"

	celebrityModel "celebstyle-backend/internal/domains/celebrity/model"
	"celebstyle-backend/internal/domains/outfit/model"
	"celebstyle-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
)

// Uploads - ảnh gallery mới, được append sau images hiện có theo thứ tự gửi lên
type Uploads struct {
	Images []storage.File
}

// CelebrityLookup là phần của celebrity repository mà outfit service cần
type CelebrityLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*celebrityModel.Celebrity, error)
}

type Service interface {
	List(ctx context.Context, filter model.ListFilter) ([]model.Outfit, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Outfit, error)
	GetBySlug(ctx context.Context, slug string) (*model.Outfit, error)
	Create(ctx context.Context, req model.CreateOutfitRequest, uploads Uploads) (*model.Outfit, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateOutfitRequest, uploads Uploads) (*model.Outfit, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
