package handler

import (
	"net/http"

	"celebstyle-backend/internal/domains/newsletter/model"
	"celebstyle-backend/internal/domains/newsletter/service"
	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/shared/export"
	"celebstyle-backend/internal/shared/request"
	"celebstyle-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type NewsletterHandler struct {
	service service.Service
}

func NewNewsletterHandler(svc service.Service) *NewsletterHandler {
	return &NewsletterHandler{service: svc}
}

// Subscribe - POST /v1/newsletter/subscribe {email, source}
// 201 khi email mới, 200 khi re-subscribe
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req model.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.ErrInvalidRequest.Wrap(err))
		return
	}

	sub, created, err := h.service.Subscribe(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, gin.H{
		"email":      sub.Email,
		"subscribed": sub.Subscribed,
	})
}

// Unsubscribe - POST /v1/newsletter/unsubscribe {email}
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	var req model.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.ErrInvalidRequest.Wrap(err))
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subscribed": false})
}

// ════════════════════════════════════════════════════════════════
// ADMIN
// ════════════════════════════════════════════════════════════════

// List - GET /v1/admin/newsletter?status=subscribed|unsubscribed&source=&search=
func (h *NewsletterHandler) List(c *gin.Context) {
	page, limit := request.Pagination(c)

	filter := listFilter(c)
	filter.Limit = limit
	filter.Offset = request.Offset(page, limit)

	subs, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, subs, response.NewMeta(page, limit, total))
}

// Export - GET /v1/admin/newsletter/export (.xlsx, cùng filter với List)
func (h *NewsletterHandler) Export(c *gin.Context) {
	f, err := h.service.ExportXLSX(c.Request.Context(), listFilter(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := export.Write(c, f, "newsletter-subscribers"); err != nil {
		log.Error().Err(err).Msg("Failed to stream newsletter export")
	}
}

func listFilter(c *gin.Context) model.ListFilter {
	filter := model.ListFilter{
		Source: c.Query("source"),
		Search: c.Query("search"),
	}
	switch c.Query("status") {
	case "subscribed":
		v := true
		filter.Subscribed = &v
	case "unsubscribed":
		v := false
		filter.Subscribed = &v
	}
	return filter
}
