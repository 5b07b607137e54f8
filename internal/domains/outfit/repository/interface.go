package repository

import (
	"context"

	"celebstyle-backend/internal/domains/outfit/model"

	"github.com/google/uuid"
)

// Repository - Content Store của outfits.
// Mọi thao tác đổi số outfit của celebrity cập nhật celebrities.outfit_count trong cùng transaction.
type Repository interface {
	Create(ctx context.Context, o *model.Outfit) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Outfit, error)
	GetBySlug(ctx context.Context, slug string) (*model.Outfit, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Outfit, int, error)

	// Update ghi outfit; celebrity đổi → chuyển counter từ owner cũ sang owner mới
	Update(ctx context.Context, o *model.Outfit) error

	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
}
