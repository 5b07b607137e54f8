package repository

import (
	"context"

	"celebstyle-backend/internal/domains/celebrity/model"

	"github.com/google/uuid"
)

// Repository - Content Store của celebrities
type Repository interface {
	Create(ctx context.Context, c *model.Celebrity) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Celebrity, error)
	GetBySlug(ctx context.Context, slug string) (*model.Celebrity, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Celebrity, int, error)
	Update(ctx context.Context, c *model.Celebrity) error

	// Delete xóa celebrity không còn outfit (FK restrict → ErrCelebrityHasOutfits)
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteCascade xóa outfits (kèm affiliate products qua FK cascade) và celebrity
	// trong một transaction, trả về ID các outfit đã xóa
	DeleteCascade(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)

	CountOutfits(ctx context.Context, id uuid.UUID) (int, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// ReconcileOutfitCounts recompute outfit_count từ bảng outfits, trả về số row bị sửa
	ReconcileOutfitCounts(ctx context.Context) (int64, error)
}
