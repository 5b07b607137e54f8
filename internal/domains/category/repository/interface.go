package repository

import (
	"context"

	"celebstyle-backend/internal/domains/category/model"

	"github.com/google/uuid"
)

// Repository - Content Store của category items
type Repository interface {
	Create(ctx context.Context, item *model.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Item, int, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Categories - distinct category kèm số item
	Categories(ctx context.Context) ([]model.Category, error)

	// CreateBatch insert toàn bộ items trong một transaction (CSV import)
	CreateBatch(ctx context.Context, items []*model.Item) error
}
