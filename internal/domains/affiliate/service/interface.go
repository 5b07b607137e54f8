package service

import (
	"context"

	"celebstyle-backend/internal/domains/affiliate/model"
	outfitModel "celebstyle-backend/internal/domains/outfit/model"
	"celebstyle-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
)

// OutfitLookup - product chỉ được gắn vào outfit đang tồn tại
type OutfitLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*outfitModel.Outfit, error)
}

type Service interface {
	List(ctx context.Context, filter model.ListFilter) ([]model.Product, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Create(ctx context.Context, req model.CreateProductRequest, image *storage.File) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest, image *storage.File) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
