package service

import (
	"context"
	"strings"
	"time"

	"celebstyle-backend/internal/domains/affiliate/model"
	"celebstyle-backend/internal/domains/affiliate/repository"
	"celebstyle-backend/internal/infrastructure/queue"
	"celebstyle-backend/internal/infrastructure/storage"
	"celebstyle-backend/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type productService struct {
	repo     repository.Repository
	outfits  OutfitLookup
	uploader *storage.Uploader
	keys     *storage.KeyBuilder
	jobs     queue.Enqueuer
	now      func() time.Time
}

func NewService(repo repository.Repository, outfits OutfitLookup, uploader *storage.Uploader, jobs queue.Enqueuer) Service {
	return &productService{
		repo:     repo,
		outfits:  outfits,
		uploader: uploader,
		keys:     storage.NewKeyBuilder(),
		jobs:     jobs,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *productService) List(ctx context.Context, filter model.ListFilter) ([]model.Product, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Retailer = strings.TrimSpace(filter.Retailer)
	filter.Search = strings.TrimSpace(filter.Search)

	return s.repo.List(ctx, filter)
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ============================================================
// CREATE: validate → outfit tồn tại → upload → insert
// ============================================================
func (s *productService) Create(ctx context.Context, req model.CreateProductRequest, image *storage.File) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	entity := req.ToEntity()
	if err := s.checkOutfit(ctx, entity.OutfitID); err != nil {
		return nil, err
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
		Str("product_id", entity.ID.String()).
		Str("outfit_id", entity.OutfitID.String()).
		Msg("Affiliate product created")
	return entity, nil
}

// ============================================================
// UPDATE
// ============================================================
func (s *productService) Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest, image *storage.File) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousImage := entity.Image

	if req.OutfitID != nil {
		outfitID := uuid.MustParse(*req.OutfitID)
		if outfitID != entity.OutfitID {
			if err := s.checkOutfit(ctx, outfitID); err != nil {
				return nil, err
			}
			entity.OutfitID = outfitID
		}
	}
	req.ApplyTo(entity)
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
		s.cleanupAssets(ctx, []string{previousImage}, "product image replaced")
	}
	return entity, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if entity.Image != "" {
		s.cleanupAssets(ctx, []string{entity.Image}, "product deleted")
	}
	log.Info().Str("product_id", id.String()).Msg("Affiliate product deleted")
	return nil
}

// ============================================================
// HELPERS
// ============================================================

// checkOutfit: NotFound của outfit → Referential (422), lỗi khác giữ nguyên
func (s *productService) checkOutfit(ctx context.Context, id uuid.UUID) error {
	if _, err := s.outfits.GetByID(ctx, id); err != nil {
		if apperror.IsNotFound(err) {
			return model.ErrUnknownOutfit.WithMessage("Outfit %s does not exist", id)
		}
		return err
	}
	return nil
}

func (s *productService) upload(ctx context.Context, batch *storage.Batch, p *model.Product, image *storage.File) error {
	if image == nil {
		return nil
	}
	url, err := batch.Put(ctx, *image, func(ext string) string {
		return s.keys.Product(p.OutfitID, p.Title, ext)
	})
	if err != nil {
		return err
	}
	p.Image = url
	return nil
}

func (s *productService) cleanupAssets(ctx context.Context, urls []string, reason string) {
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
