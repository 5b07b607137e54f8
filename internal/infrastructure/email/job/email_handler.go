package job

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"celebstyle-backend/internal/infrastructure/email"
	"celebstyle-backend/internal/infrastructure/queue"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// ============================================
// Newsletter Welcome Handler
// ============================================

type WelcomeEmailHandler struct {
	sender         email.Sender
	unsubscribeURL string // trang unsubscribe của website, email được append vào query
}

func NewWelcomeEmailHandler(sender email.Sender, unsubscribeURL string) *WelcomeEmailHandler {
	return &WelcomeEmailHandler{
		sender:         sender,
		unsubscribeURL: unsubscribeURL,
	}
}

func (h *WelcomeEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.SendWelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal SendWelcomeEmail payload")
		// payload hỏng thì retry cũng vô ích
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Email == "" {
		return fmt.Errorf("empty email: %w", asynq.SkipRetry)
	}

	log.Info().
		Str("source", payload.Source).
		Msg("Processing newsletter welcome email")

	data := email.WelcomeData{
		Email:  payload.Email,
		Source: payload.Source,
	}
	if h.unsubscribeURL != "" {
		data.UnsubscribeURL = h.unsubscribeURL + "?email=" + url.QueryEscape(payload.Email)
	}

	if err := h.sender.SendWelcome(ctx, data); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}

	log.Info().Msg("Newsletter welcome email sent")
	return nil
}
