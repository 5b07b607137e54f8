package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"celebstyle-backend/internal/domains/celebrity/model"
	"celebstyle-backend/internal/domains/celebrity/repository"
	"celebstyle-backend/internal/infrastructure/queue"
	"celebstyle-backend/internal/infrastructure/storage"
	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/shared/utils"
	"celebstyle-backend/internal/state"
	"celebstyle-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type celebrityService struct {
	repo        repository.Repository
	uploader    *storage.Uploader
	keys        *storage.KeyBuilder
	jobs        queue.Enqueuer
	celebrities state.Remover
	outfits     state.Remover
	now         func() time.Time
}

// NewService - celebrities và outfits là state containers của landing page (có thể nil)
func NewService(
	repo repository.Repository,
	uploader *storage.Uploader,
	jobs queue.Enqueuer,
	celebrities state.Remover,
	outfits state.Remover,
) Service {
	return &celebrityService{
		repo:        repo,
		uploader:    uploader,
		keys:        storage.NewKeyBuilder(),
		jobs:        jobs,
		celebrities: celebrities,
		outfits:     outfits,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ============================================================
// READ
// ============================================================
func (s *celebrityService) List(ctx context.Context, filter model.ListFilter) ([]model.Celebrity, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Tag = utils.GenerateSlug(filter.Tag)
	filter.Search = strings.TrimSpace(filter.Search)

	return s.repo.List(ctx, filter)
}

func (s *celebrityService) GetByID(ctx context.Context, id uuid.UUID) (*model.Celebrity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *celebrityService) GetBySlug(ctx context.Context, slug string) (*model.Celebrity, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !utils.IsValidSlug(slug) {
		return nil, model.ErrCelebrityNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

// ============================================================
// CREATE: validate → slug → upload → insert
// ============================================================
func (s *celebrityService) Create(ctx context.Context, req model.CreateCelebrityRequest, uploads Uploads) (*model.Celebrity, error) {
	// STEP 1: Validate
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	// STEP 2: Slug
	entity := req.ToEntity()
	slug := req.Slug
	if slug == "" {
		slug = utils.GenerateSlug(entity.Name)
	}
	if !utils.IsValidSlug(slug) {
		return nil, model.ErrInvalidSlug
	}
	exists, err := s.repo.ExistsBySlug(ctx, slug, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrDuplicateSlug.WithMessage("Celebrity with slug '%s' already exists", slug)
	}

	now := s.now()
	entity.ID = uuid.New()
	entity.Slug = slug
	entity.CreatedAt = now
	entity.UpdatedAt = now

	// STEP 3: Upload trước khi ghi DB. Upload fail → không insert.
	batch := s.uploader.NewBatch()
	if err := s.applyUploads(ctx, batch, entity, uploads); err != nil {
		batch.Discard(ctx)
		return nil, err
	}

	// STEP 4: Insert, fail thì dọn asset vừa upload
	if err := s.repo.Create(ctx, entity); err != nil {
		batch.Discard(ctx)
		return nil, err
	}

	logger.Info("Celebrity created", map[string]interface{}{
		"celebrity_id": entity.ID.String(),
		"slug":         entity.Slug,
		"uploads":      len(batch.Keys()),
	})
	return entity, nil
}

// ============================================================
// UPDATE
// ============================================================
func (s *celebrityService) Update(ctx context.Context, id uuid.UUID, req model.UpdateCelebrityRequest, uploads Uploads) (*model.Celebrity, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := entity.ImageURLs()

	nameChanged := req.ApplyTo(entity)

	// Slug chỉ đổi khi được set rõ ràng, hoặc name đổi mà không kèm slug
	newSlug := entity.Slug
	if req.Slug != nil {
		newSlug = *req.Slug
	} else if nameChanged {
		newSlug = utils.GenerateSlug(entity.Name)
	}
	if newSlug != entity.Slug {
		if !utils.IsValidSlug(newSlug) {
			return nil, model.ErrInvalidSlug
		}
		exists, err := s.repo.ExistsBySlug(ctx, newSlug, &id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.ErrDuplicateSlug.WithMessage("Celebrity with slug '%s' already exists", newSlug)
		}
		entity.Slug = newSlug
	}
	entity.UpdatedAt = s.now()

	batch := s.uploader.NewBatch()
	if err := s.applyUploads(ctx, batch, entity, uploads); err != nil {
		batch.Discard(ctx)
		return nil, err
	}

	if err := s.repo.Update(ctx, entity); err != nil {
		batch.Discard(ctx)
		return nil, err
	}

	// Ảnh cũ bị thay thế → xóa bằng background job
	s.cleanupAssets(ctx, unreferenced(before, entity.ImageURLs()), "celebrity image replaced")

	return entity, nil
}

// ============================================================
// DELETE
// ============================================================
func (s *celebrityService) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.repo.CountOutfits(ctx, id)
	if err != nil {
		return err
	}

	var removedOutfits []uuid.UUID
	switch {
	case count > 0 && !cascade:
		return model.ErrCelebrityHasOutfits.WithMessage("Celebrity has %d outfits; delete them first or pass cascade=true", count)
	case cascade:
		removedOutfits, err = s.repo.DeleteCascade(ctx, id)
	default:
		// FK restrict vẫn chặn nếu outfit được tạo giữa CountOutfits và Delete
		err = s.repo.Delete(ctx, id)
	}
	if err != nil {
		return err
	}

	// Side effects sau khi delete đã commit: cleanup asset + optimistic remove
	s.cleanupAssets(ctx, entity.ImageURLs(), "celebrity deleted")
	if len(removedOutfits) > 0 {
		s.enqueuePrefix(ctx, storage.CelebrityOutfitsPrefix(id), "celebrity cascade delete")
		for _, outfitID := range removedOutfits {
			s.enqueuePrefix(ctx, storage.ProductsPrefix(outfitID), "celebrity cascade delete")
			if s.outfits != nil {
				s.outfits.Remove(outfitID)
			}
		}
	}
	if s.celebrities != nil {
		s.celebrities.Remove(id)
	}

	log.Info().
		Str("celebrity_id", id.String()).
		Bool("cascade", cascade).
		Int("outfits_removed", len(removedOutfits)).
		Msg("Celebrity deleted")
	return nil
}

func (s *celebrityService) ReconcileOutfitCounts(ctx context.Context) (int64, error) {
	fixed, err := s.repo.ReconcileOutfitCounts(ctx)
	if err != nil {
		return 0, err
	}
	if fixed > 0 {
		log.Warn().Int64("celebrities", fixed).Msg("outfit_count drift corrected")
	}
	return fixed, nil
}

// ============================================================
// HELPERS
// ============================================================

func (s *celebrityService) applyUploads(ctx context.Context, batch *storage.Batch, c *model.Celebrity, uploads Uploads) error {
	if uploads.empty() {
		return nil
	}
	keyFor := func(ext string) string { return s.keys.Celebrity(c.Slug, ext) }

	targets := []struct {
		file *storage.File
		dst  *string
	}{
		{uploads.Image, &c.Image},
		{uploads.CoverImage, &c.CoverImage},
		{uploads.InfoboxImage, &c.InfoboxImage},
	}
	for _, t := range targets {
		if t.file == nil {
			continue
		}
		url, err := batch.Put(ctx, *t.file, keyFor)
		if err != nil {
			return fmt.Errorf("upload %s: %w", t.file.Name, err)
		}
		*t.dst = url
	}
	return nil
}

func (s *celebrityService) cleanupAssets(ctx context.Context, urls []string, reason string) {
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

func (s *celebrityService) enqueuePrefix(ctx context.Context, prefix, reason string) {
	if err := s.jobs.DeleteAssetPrefix(ctx, prefix, reason); err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("Failed to enqueue asset cleanup")
	}
}

// unreferenced trả về URL có trong before nhưng không còn trong after
func unreferenced(before, after []string) []string {
	keep := make(map[string]bool, len(after))
	for _, u := range after {
		keep[u] = true
	}
	var out []string
	for _, u := range before {
		if !keep[u] {
			out = append(out, u)
		}
	}
	return out
}
