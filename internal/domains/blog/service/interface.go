package service

import (
	"context"

	"celebstyle-backend/internal/domains/blog/model"
	"celebstyle-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
)

type Service interface {
	List(ctx context.Context, filter model.ListFilter) ([]model.Summary, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	Topics(ctx context.Context) ([]model.Topic, error)
	Topic(ctx context.Context, slug string) (*model.Topic, error)

	// cover là ảnh upload (nil = giữ cover_image trong request)
	Create(ctx context.Context, req model.CreatePostRequest, cover *storage.File) (*model.Post, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdatePostRequest, cover *storage.File) (*model.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
