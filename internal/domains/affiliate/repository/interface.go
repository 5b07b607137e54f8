package repository

import (
	"context"

	"celebstyle-backend/internal/domains/affiliate/model"

	"github.com/google/uuid"
)

// Repository - Content Store của affiliate products
type Repository interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Product, int, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}
