package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"celebstyle-backend/internal/infrastructure/queue"
	"celebstyle-backend/internal/infrastructure/storage"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// AssetCleanupHandler xóa asset mồ côi sau khi entity bị xóa hoặc write bị rollback
type AssetCleanupHandler struct {
	store storage.AssetStore
}

func NewAssetCleanupHandler(store storage.AssetStore) *AssetCleanupHandler {
	return &AssetCleanupHandler{store: store}
}

// ProcessDeletePrefix xử lý asset:delete_prefix
func (h *AssetCleanupHandler) ProcessDeletePrefix(ctx context.Context, task *asynq.Task) error {
	var p queue.DeleteAssetPrefixPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteAssetPrefix payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.Prefix == "" {
		return fmt.Errorf("empty prefix: %w", asynq.SkipRetry)
	}

	if err := h.store.DeletePrefix(ctx, p.Prefix); err != nil {
		log.Error().Err(err).Str("prefix", p.Prefix).Msg("Failed to delete asset prefix")
		return fmt.Errorf("delete prefix: %w", err)
	}

	log.Info().
		Str("prefix", p.Prefix).
		Str("reason", p.Reason).
		Msg("Asset prefix deleted")
	return nil
}

// ProcessDeleteKeys xử lý asset:delete_keys
func (h *AssetCleanupHandler) ProcessDeleteKeys(ctx context.Context, task *asynq.Task) error {
	var p queue.DeleteAssetKeysPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteAssetKeys payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	// Thumbnail đi kèm (nếu có) cũng bị xóa, object không tồn tại không phải lỗi với S3
	keys := make([]string, 0, len(p.Keys)*2)
	for _, k := range p.Keys {
		if k == "" {
			continue
		}
		keys = append(keys, k)
		if !storage.IsThumbnailKey(k) {
			keys = append(keys, storage.ThumbnailKey(k))
		}
	}

	if err := h.store.DeleteKeys(ctx, keys); err != nil {
		log.Error().Err(err).Int("count", len(keys)).Msg("Failed to delete asset keys")
		return fmt.Errorf("delete keys: %w", err)
	}

	log.Info().
		Int("count", len(keys)).
		Str("reason", p.Reason).
		Msg("Asset keys deleted")
	return nil
}
