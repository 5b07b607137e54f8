package repository

import (
	"context"

	"celebstyle-backend/internal/domains/blog/model"

	"github.com/google/uuid"
)

// Repository - Content Store của blog posts
type Repository interface {
	Create(ctx context.Context, p *model.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Summary, int, error)
	Update(ctx context.Context, p *model.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)

	// Topics - các category đang có bài, kèm số bài
	Topics(ctx context.Context) ([]model.Topic, error)
}
