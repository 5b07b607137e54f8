package service

import (
	"context"
	"strings"
	"time"

	"celebstyle-backend/internal/domains/category/model"
	"celebstyle-backend/internal/domains/category/repository"
	"celebstyle-backend/internal/infrastructure/queue"
	"celebstyle-backend/internal/infrastructure/storage"
	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/shared/utils"
	"celebstyle-backend/internal/state"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type categoryService struct {
	repo     repository.Repository
	uploader *storage.Uploader
	keys     *storage.KeyBuilder
	jobs     queue.Enqueuer
	items    state.Remover
	now      func() time.Time
}

// NewService - items là state container của landing page (có thể nil)
func NewService(repo repository.Repository, uploader *storage.Uploader, jobs queue.Enqueuer, items state.Remover) Service {
	return &categoryService{
		repo:     repo,
		uploader: uploader,
		keys:     storage.NewKeyBuilder(),
		jobs:     jobs,
		items:    items,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ============================================================
// READ
// ============================================================
func (s *categoryService) List(ctx context.Context, filter model.ListFilter) ([]model.Item, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.CategorySlug = utils.GenerateSlug(filter.CategorySlug)
	filter.Retailer = strings.TrimSpace(filter.Retailer)
	filter.Search = strings.TrimSpace(filter.Search)

	return s.repo.List(ctx, filter)
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.repo.Categories(ctx)
}

// Category nhận slug hoặc tên hiển thị ("Red Carpet" → red-carpet)
func (s *categoryService) Category(ctx context.Context, slug string) (*model.Category, error) {
	slug = utils.GenerateSlug(slug)
	if slug == "" {
		return nil, model.ErrCategoryNotFound
	}

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].Slug == slug {
			return &categories[i], nil
		}
	}
	return nil, model.ErrCategoryNotFound.WithMessage("Category %q not found", slug)
}

// ============================================================
// CREATE: validate → upload → insert
// ============================================================
func (s *categoryService) Create(ctx context.Context, req model.CreateItemRequest, image *storage.File) (*model.Item, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	entity := req.ToEntity()
	if entity.CategorySlug == "" {
		return nil, model.ErrInvalidCategory
	}

	now := s.now()
	entity.ID = uuid.New()
	entity.CreatedAt = now
	entity.UpdatedAt = now

	batch := s.uploader.NewBatch()
	if err := s.upload(ctx, batch, entity, image); err != nil {
		batch.Discard(ctx)
		return nil, err
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		batch.Discard(ctx)
		return nil, err
	}

	log.Info().
		Str("item_id", entity.ID.String()).
		Str("category", entity.CategorySlug).
		Msg("Category item created")
	return entity, nil
}

// ============================================================
// UPDATE
// ============================================================
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req model.UpdateItemRequest, image *storage.File) (*model.Item, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousImage := entity.Image

	req.ApplyTo(entity)
	if entity.CategorySlug == "" {
		return nil, model.ErrInvalidCategory
	}
	entity.UpdatedAt = s.now()

	batch := s.uploader.NewBatch()
	if err := s.upload(ctx, batch, entity, image); err != nil {
		batch.Discard(ctx)
		return nil, err
	}

	if err := s.repo.Update(ctx, entity); err != nil {
		batch.Discard(ctx)
		return nil, err
	}

	if previousImage != "" && previousImage != entity.Image {
		s.cleanupAssets(ctx, []string{previousImage}, "category item image replaced")
	}
	return entity, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if entity.Image != "" {
		s.cleanupAssets(ctx, []string{entity.Image}, "category item deleted")
	}
	if s.items != nil {
		s.items.Remove(id)
	}
	log.Info().Str("item_id", id.String()).Msg("Category item deleted")
	return nil
}

// ============================================================
// HELPERS
// ============================================================
func (s *categoryService) upload(ctx context.Context, batch *storage.Batch, item *model.Item, image *storage.File) error {
	if image == nil {
		return nil
	}
	url, err := batch.Put(ctx, *image, func(ext string) string {
		return s.keys.CategoryItem(item.CategorySlug, item.Title, ext)
	})
	if err != nil {
		return err
	}
	item.Image = url
	return nil
}

func (s *categoryService) cleanupAssets(ctx context.Context, urls []string, reason string) {
	var keys []string
	for _, u := range urls {
		if key, ok := s.uploader.Store().KeyFromURL(u); ok {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.jobs.DeleteAssetKeys(ctx, keys, reason); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("Failed to enqueue asset cleanup")
	}
}
