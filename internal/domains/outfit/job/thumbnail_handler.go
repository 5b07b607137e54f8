package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"celebstyle-backend/internal/infrastructure/queue"
	"celebstyle-backend/internal/infrastructure/storage"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ThumbnailHandler tạo thumb_ variant (400px) cho ảnh gallery vừa upload
type ThumbnailHandler struct {
	store     storage.AssetStore
	processor *storage.ImageProcessor
}

func NewThumbnailHandler(store storage.AssetStore, processor *storage.ImageProcessor) *ThumbnailHandler {
	return &ThumbnailHandler{
		store:     store,
		processor: processor,
	}
}

// ProcessTask xử lý outfit:generate_thumbnails.
// Key không còn tồn tại (outfit đã bị xóa) hoặc không decode được thì bỏ qua, không retry.
func (h *ThumbnailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.GenerateThumbnailsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal GenerateThumbnails payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	generated := 0
	for _, key := range payload.Keys {
		if key == "" || storage.IsThumbnailKey(key) {
			continue
		}

		data, err := h.store.Download(ctx, key)
		if errors.Is(err, storage.ErrObjectNotFound) {
			log.Warn().Str("key", key).Msg("Source image gone, skipping thumbnail")
			continue
		}
		if err != nil {
			return fmt.Errorf("download %s: %w", key, err)
		}

		thumb, err := h.processor.Thumbnail(data)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Cannot build thumbnail")
			continue
		}

		if _, err := h.store.Upload(ctx, storage.ThumbnailKey(key), thumb.Data, thumb.ContentType); err != nil {
			return fmt.Errorf("upload thumbnail of %s: %w", key, err)
		}
		generated++
	}

	log.Info().
		Str("outfit_id", payload.OutfitID.String()).
		Int("generated", generated).
		Int("requested", len(payload.Keys)).
		Msg("Outfit thumbnails generated")
	return nil
}
