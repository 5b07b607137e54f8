package home

import (
	"net/http"

	"celebstyle-backend/internal/domains/seo"
	"celebstyle-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	seo     *seo.Builder
}

func NewHandler(svc *Service, seoBuilder *seo.Builder) *Handler {
	return &Handler{service: svc, seo: seoBuilder}
}

type LandingResponse struct {
	*Page
	SEO seo.PageMeta `json:"seo"`
}

// Landing - GET /v1/home
func (h *Handler) Landing(c *gin.Context) {
	page, err := h.service.Landing(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, LandingResponse{Page: page, SEO: h.seo.Home()})
}
