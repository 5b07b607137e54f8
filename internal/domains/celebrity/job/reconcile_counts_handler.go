package job

import (
	"context"
	"fmt"
	"time"

	celebrityService "celebstyle-backend/internal/domains/celebrity/service"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ReconcileCountsHandler recompute celebrities.outfit_count từ bảng outfits (cron job)
type ReconcileCountsHandler struct {
	service celebrityService.Service
}

func NewReconcileCountsHandler(svc celebrityService.Service) *ReconcileCountsHandler {
	return &ReconcileCountsHandler{
		service: svc,
	}
}

// ProcessTask xử lý celebrity:reconcile_outfit_counts
func (h *ReconcileCountsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	start := time.Now()

	fixed, err := h.service.ReconcileOutfitCounts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to reconcile outfit counts")
		return fmt.Errorf("reconcile outfit counts: %w", err)
	}

	log.Info().
		Int64("fixed", fixed).
		Dur("duration", time.Since(start)).
		Msg("Outfit counts reconciled")
	return nil
}
