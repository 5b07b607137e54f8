package service

import (
	"context"
	"strings"
	"time"

	"celebstyle-backend/internal/domains/blog/model"
	"celebstyle-backend/internal/domains/blog/repository"
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

type blogService struct {
	repo     repository.Repository
	uploader *storage.Uploader
	keys     *storage.KeyBuilder
	jobs     queue.Enqueuer
	posts    state.Remover
	now      func() time.Time
}

// NewService - posts là state container của landing page (có thể nil)
func NewService(repo repository.Repository, uploader *storage.Uploader, jobs queue.Enqueuer, posts state.Remover) Service {
	return &blogService{
		repo:     repo,
		uploader: uploader,
		keys:     storage.NewKeyBuilder(),
		jobs:     jobs,
		posts:    posts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ============================================================
// READ
// ============================================================
func (s *blogService) List(ctx context.Context, filter model.ListFilter) ([]model.Summary, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Topic = utils.GenerateSlug(filter.Topic)
	filter.Search = strings.TrimSpace(filter.Search)

	return s.repo.List(ctx, filter)
}

func (s *blogService) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *blogService) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !utils.IsValidSlug(slug) {
		return nil, model.ErrPostNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

func (s *blogService) Topics(ctx context.Context) ([]model.Topic, error) {
	return s.repo.Topics(ctx)
}

// Topic nhận slug hoặc tên hiển thị ("Red Carpet" == "red-carpet")
func (s *blogService) Topic(ctx context.Context, slug string) (*model.Topic, error) {
	slug = utils.GenerateSlug(slug)
	if slug == "" {
		return nil, model.ErrTopicNotFound
	}
	topics, err := s.repo.Topics(ctx)
	if err != nil {
		return nil, err
	}
	for i := range topics {
		if topics[i].Slug == slug {
			return &topics[i], nil
		}
	}
	return nil, model.ErrTopicNotFound.WithMessage("Blog topic '%s' not found", slug)
}

// ============================================================
// CREATE
// ============================================================
func (s *blogService) Create(ctx context.Context, req model.CreatePostRequest, cover *storage.File) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	now := s.now()
	entity := req.ToEntity(now)
	if entity.Slug == "" {
		entity.Slug = utils.GenerateSlug(entity.Title)
	}
	if err := s.checkSlug(ctx, entity.Slug, nil); err != nil {
		return nil, err
	}

	entity.ID = uuid.New()
	entity.CreatedAt = now
	entity.UpdatedAt = now

	batch := s.uploader.NewBatch()
	if err := s.uploadCover(ctx, batch, entity, cover); err != nil {
		batch.Discard(ctx)
		return nil, err
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		batch.Discard(ctx)
		return nil, err
	}

	log.Info().
		Str("post_id", entity.ID.String()).
		Str("slug", entity.Slug).
		Str("topic", entity.CategorySlug).
		Msg("Blog post created")
	return entity, nil
}

// ============================================================
// UPDATE
// ============================================================
func (s *blogService) Update(ctx context.Context, id uuid.UUID, req model.UpdatePostRequest, cover *storage.File) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousCover := entity.CoverImage

	titleChanged := req.ApplyTo(entity)

	newSlug := entity.Slug
	if req.Slug != nil {
		newSlug = *req.Slug
	} else if titleChanged {
		newSlug = utils.GenerateSlug(entity.Title)
	}
	if newSlug != entity.Slug {
		if err := s.checkSlug(ctx, newSlug, &id); err != nil {
			return nil, err
		}
		entity.Slug = newSlug
	}
	entity.UpdatedAt = s.now()

	batch := s.uploader.NewBatch()
	if err := s.uploadCover(ctx, batch, entity, cover); err != nil {
		batch.Discard(ctx)
		return nil, err
	}

	if err := s.repo.Update(ctx, entity); err != nil {
		batch.Discard(ctx)
		return nil, err
	}

	if previousCover != "" && previousCover != entity.CoverImage {
		s.cleanupAssets(ctx, []string{previousCover}, "blog cover replaced")
	}
	return entity, nil
}

// ============================================================
// DELETE
// ============================================================
func (s *blogService) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if entity.CoverImage != "" {
		s.cleanupAssets(ctx, []string{entity.CoverImage}, "blog post deleted")
	}
	if s.posts != nil {
		s.posts.Remove(id)
	}

	log.Info().Str("post_id", id.String()).Msg("Blog post deleted")
	return nil
}

// ============================================================
// HELPERS
// ============================================================

func (s *blogService) checkSlug(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	if !utils.IsValidSlug(slug) {
		return model.ErrInvalidSlug
	}
	exists, err := s.repo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return model.ErrDuplicateSlug.WithMessage("Blog post with slug '%s' already exists", slug)
	}
	return nil
}

func (s *blogService) uploadCover(ctx context.Context, batch *storage.Batch, p *model.Post, cover *storage.File) error {
	if cover == nil {
		return nil
	}
	url, err := batch.Put(ctx, *cover, func(ext string) string {
		return s.keys.BlogCover(p.Slug, ext)
	})
	if err != nil {
		return err
	}
	p.CoverImage = url
	return nil
}

func (s *blogService) cleanupAssets(ctx context.Context, urls []string, reason string) {
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
