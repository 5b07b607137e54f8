package seo

import (
	"net/http"

	"celebstyle-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	feeds *FeedService
}

func NewHandler(feeds *FeedService) *Handler {
	return &Handler{feeds: feeds}
}

// Sitemap - GET /sitemap.xml
func (h *Handler) Sitemap(c *gin.Context) {
	data, err := h.feeds.Sitemap(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", data)
}

// RSS - GET /rss.xml
func (h *Handler) RSS(c *gin.Context) {
	data, err := h.feeds.RSS(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=1800")
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", data)
}
