package main

import (
	"github.com/hibiken/asynq"

	celebrityJob "celebstyle-backend/internal/domains/celebrity/job"
	outfitJob "celebstyle-backend/internal/domains/outfit/job"
	emailJob "celebstyle-backend/internal/infrastructure/email/job"
	"celebstyle-backend/internal/infrastructure/queue"
	queueHandlers "celebstyle-backend/internal/infrastructure/queue/handlers"
	"celebstyle-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Asset maintenance
	assetCleanup *queueHandlers.AssetCleanupHandler

	// Media
	thumbnails *outfitJob.ThumbnailHandler

	// Scheduled
	reconcileCounts *celebrityJob.ReconcileCountsHandler

	// Newsletter (nil khi chưa cấu hình SMTP)
	welcome *emailJob.WelcomeEmailHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	h := &HandlerRegistry{
		assetCleanup:    queueHandlers.NewAssetCleanupHandler(c.Storage),
		thumbnails:      outfitJob.NewThumbnailHandler(c.Storage, c.Images),
		reconcileCounts: celebrityJob.NewReconcileCountsHandler(c.CelebrityService),
	}
	if c.Mailer != nil {
		h.welcome = emailJob.NewWelcomeEmailHandler(c.Mailer, c.SEO.URL("newsletter", "unsubscribe"))
	}
	return h
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeDeleteAssetPrefix, h.assetCleanup.ProcessDeletePrefix)
	mux.HandleFunc(queue.TypeDeleteAssetKeys, h.assetCleanup.ProcessDeleteKeys)
	mux.HandleFunc(queue.TypeGenerateOutfitThumbs, h.thumbnails.ProcessTask)
	mux.HandleFunc(queue.TypeReconcileOutfitCounts, h.reconcileCounts.ProcessTask)
	if h.welcome != nil {
		mux.HandleFunc(queue.TypeSendWelcomeEmail, h.welcome.ProcessTask)
	}
}
