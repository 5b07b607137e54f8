package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	celebrityModel "celebstyle-backend/internal/domains/celebrity/model"
	"celebstyle-backend/internal/domains/outfit/model"
	"celebstyle-backend/internal/domains/outfit/repository"
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

type outfitService struct {
	repo        repository.Repository
	celebrities CelebrityLookup
	uploader    *storage.Uploader
	keys        *storage.KeyBuilder
	jobs        queue.Enqueuer
	outfits     state.Remover
	now         func() time.Time
}

func NewService(
	repo repository.Repository,
	celebrities CelebrityLookup,
	uploader *storage.Uploader,
	jobs queue.Enqueuer,
	outfits state.Remover,
) Service {
	return &outfitService{
		repo:        repo,
		celebrities: celebrities,
		uploader:    uploader,
		keys:        storage.NewKeyBuilder(),
		jobs:        jobs,
		outfits:     outfits,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ============================================================
// READ
// ============================================================
func (s *outfitService) List(ctx context.Context, filter model.ListFilter) ([]model.Outfit, int, error) {
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
	filter.Occasion = strings.TrimSpace(filter.Occasion)

	return s.repo.List(ctx, filter)
}

func (s *outfitService) GetByID(ctx context.Context, id uuid.UUID) (*model.Outfit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *outfitService) GetBySlug(ctx context.Context, slug string) (*model.Outfit, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !utils.IsValidSlug(slug) {
		return nil, model.ErrOutfitNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

// ============================================================
// CREATE
// ============================================================
func (s *outfitService) Create(ctx context.Context, req model.CreateOutfitRequest, uploads Uploads) (*model.Outfit, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	entity := req.ToEntity()
	if len(entity.Images)+len(uploads.Images) > model.MaxImages {
		return nil, model.ErrTooManyImages
	}

	// Celebrity phải tồn tại trước khi upload (path chứa celebrityId + slug)
	celebrity, err := s.lookupCelebrity(ctx, entity.CelebrityID)
	if err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.GenerateSlug(entity.Title)
	}
	if err := s.checkSlug(ctx, slug, nil); err != nil {
		return nil, err
	}

	now := s.now()
	entity.ID = uuid.New()
	entity.Slug = slug
	entity.CreatedAt = now
	entity.UpdatedAt = now

	batch := s.uploader.NewBatch()
	if err := s.uploadGallery(ctx, batch, entity, celebrity.Slug, uploads); err != nil {
		batch.Discard(ctx)
		return nil, err
	}
	entity.SyncPrimaryImage()

	if err := s.repo.Create(ctx, entity); err != nil {
		batch.Discard(ctx)
		return nil, err
	}
	entity.CelebrityName = celebrity.Name
	entity.CelebritySlug = celebrity.Slug

	s.enqueueThumbnails(ctx, entity.ID, batch.Keys())

	log.Info().
		Str("outfit_id", entity.ID.String()).
		Str("celebrity_id", entity.CelebrityID.String()).
		Str("slug", entity.Slug).
		Int("images", len(entity.Images)).
		Msg("Outfit created")
	return entity, nil
}

// ============================================================
// UPDATE
// ============================================================
func (s *outfitService) Update(ctx context.Context, id uuid.UUID, req model.UpdateOutfitRequest, uploads Uploads) (*model.Outfit, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := entity.ImageURLs()

	// Reassign celebrity
	celebritySlug := entity.CelebritySlug
	if req.CelebrityID != nil {
		newID := uuid.MustParse(*req.CelebrityID)
		if newID != entity.CelebrityID {
			celebrity, err := s.lookupCelebrity(ctx, newID)
			if err != nil {
				return nil, err
			}
			entity.CelebrityID = newID
			entity.CelebrityName = celebrity.Name
			entity.CelebritySlug = celebrity.Slug
			celebritySlug = celebrity.Slug
		}
	}

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

	// Gallery: reorder/remove chỉ với URL đang thuộc outfit
	if req.Images != nil {
		owned := make(map[string]bool, len(before))
		for _, u := range before {
			owned[u] = true
		}
		for _, u := range *req.Images {
			if !owned[u] {
				return nil, model.ErrForeignImage.WithMessage("Image %s does not belong to this outfit", u)
			}
		}
		entity.Images = append([]string{}, *req.Images...)
	}
	if len(entity.Images)+len(uploads.Images) > model.MaxImages {
		return nil, model.ErrTooManyImages
	}
	entity.UpdatedAt = s.now()

	batch := s.uploader.NewBatch()
	if err := s.uploadGallery(ctx, batch, entity, celebritySlug, uploads); err != nil {
		batch.Discard(ctx)
		return nil, err
	}
	entity.SyncPrimaryImage()

	if err := s.repo.Update(ctx, entity); err != nil {
		batch.Discard(ctx)
		return nil, err
	}

	s.enqueueThumbnails(ctx, entity.ID, batch.Keys())
	s.cleanupAssets(ctx, unreferenced(before, entity.ImageURLs()), "outfit image removed")

	return entity, nil
}

// ============================================================
// DELETE
// ============================================================
func (s *outfitService) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Gallery folder + ảnh affiliate products của outfit
	prefix := storage.OutfitPrefix(entity.CelebrityID, id)
	s.enqueuePrefix(ctx, prefix, "outfit deleted")
	s.enqueuePrefix(ctx, storage.ProductsPrefix(id), "outfit deleted")

	// Ảnh upload trước khi outfit đổi celebrity nằm ngoài prefix hiện tại
	var stray []string
	for _, u := range entity.ImageURLs() {
		if key, ok := s.uploader.Store().KeyFromURL(u); ok && !strings.HasPrefix(key, prefix) {
			stray = append(stray, u)
		}
	}
	s.cleanupAssets(ctx, stray, "outfit deleted")

	if s.outfits != nil {
		s.outfits.Remove(id)
	}

	log.Info().
		Str("outfit_id", id.String()).
		Str("celebrity_id", entity.CelebrityID.String()).
		Msg("Outfit deleted")
	return nil
}

// ============================================================
// HELPERS
// ============================================================

func (s *outfitService) lookupCelebrity(ctx context.Context, id uuid.UUID) (*celebrityModel.Celebrity, error) {
	celebrity, err := s.celebrities.GetByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, model.ErrUnknownCelebrity.WithMessage("Celebrity %s does not exist", id)
		}
		return nil, err
	}
	return celebrity, nil
}

func (s *outfitService) checkSlug(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	if !utils.IsValidSlug(slug) {
		return model.ErrInvalidSlug
	}
	exists, err := s.repo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return model.ErrDuplicateSlug.WithMessage("Outfit with slug '%s' already exists", slug)
	}
	return nil
}

func (s *outfitService) uploadGallery(ctx context.Context, batch *storage.Batch, o *model.Outfit, celebritySlug string, uploads Uploads) error {
	keyFor := func(ext string) string {
		return s.keys.OutfitImage(o.CelebrityID, o.ID, celebritySlug, ext)
	}
	for _, file := range uploads.Images {
		url, err := batch.Put(ctx, file, keyFor)
		if err != nil {
			return fmt.Errorf("upload %s: %w", file.Name, err)
		}
		o.Images = append(o.Images, url)
	}
	return nil
}

func (s *outfitService) enqueueThumbnails(ctx context.Context, outfitID uuid.UUID, keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := s.jobs.GenerateThumbnails(ctx, outfitID, keys); err != nil {
		log.Warn().Err(err).Str("outfit_id", outfitID.String()).Msg("Failed to enqueue thumbnail generation")
	}
}

func (s *outfitService) cleanupAssets(ctx context.Context, urls []string, reason string) {
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

func (s *outfitService) enqueuePrefix(ctx context.Context, prefix, reason string) {
	if err := s.jobs.DeleteAssetPrefix(ctx, prefix, reason); err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("Failed to enqueue asset cleanup")
	}
}

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
