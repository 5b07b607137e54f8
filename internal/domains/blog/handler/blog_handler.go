package handler

import (
	"net/http"

	"celebstyle-backend/internal/domains/blog/model"
	"celebstyle-backend/internal/domains/blog/service"
	"celebstyle-backend/internal/domains/seo"
	"celebstyle-backend/internal/shared/request"
	"celebstyle-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BlogHandler struct {
	service       service.Service
	seo           *seo.Builder
	maxUploadSize int64
}

func NewBlogHandler(svc service.Service, seoBuilder *seo.Builder, maxUploadSize int64) *BlogHandler {
	return &BlogHandler{
		service:       svc,
		seo:           seoBuilder,
		maxUploadSize: maxUploadSize,
	}
}

type DetailResponse struct {
	Post *model.Post  `json:"post"`
	SEO  seo.PageMeta `json:"seo"`
}

type TopicResponse struct {
	Topic *model.Topic    `json:"topic"`
	Posts []model.Summary `json:"posts"`
	SEO   seo.PageMeta    `json:"seo"`
}

// ════════════════════════════════════════════════════════════════
// PUBLIC
// ════════════════════════════════════════════════════════════════

// List - GET /v1/blog?topic=&search=&sort=&page=&limit=
func (h *BlogHandler) List(c *gin.Context) {
	page, limit := request.Pagination(c)

	posts, total, err := h.service.List(c.Request.Context(), model.ListFilter{
		Topic:  c.Query("topic"),
		Search: c.Query("search"),
		Sort:   c.DefaultQuery("sort", model.SortNewest),
		Limit:  limit,
		Offset: request.Offset(page, limit),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, posts, response.NewMeta(page, limit, total))
}

// Get - GET /v1/blog/:idOrSlug
func (h *BlogHandler) Get(c *gin.Context) {
	id, slug := request.IDOrSlug(c, "idOrSlug")

	var (
		post *model.Post
		err  error
	)
	if id != uuid.Nil {
		post, err = h.service.GetByID(c.Request.Context(), id)
	} else {
		post, err = h.service.GetBySlug(c.Request.Context(), slug)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, DetailResponse{Post: post, SEO: h.seo.BlogPost(post)})
}

// Topics - GET /v1/blog/topics
func (h *BlogHandler) Topics(c *gin.Context) {
	topics, err := h.service.Topics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, topics)
}

// TopicPosts - GET /v1/blog/topics/:topic
func (h *BlogHandler) TopicPosts(c *gin.Context) {
	ctx := c.Request.Context()

	topic, err := h.service.Topic(ctx, c.Param("topic"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	page, limit := request.Pagination(c)
	posts, total, err := h.service.List(ctx, model.ListFilter{
		Topic:  topic.Slug,
		Sort:   c.DefaultQuery("sort", model.SortNewest),
		Limit:  limit,
		Offset: request.Offset(page, limit),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, TopicResponse{
		Topic: topic,
		Posts: posts,
		SEO:   h.seo.BlogTopic(*topic),
	}, response.NewMeta(page, limit, total))
}

// ════════════════════════════════════════════════════════════════
// ADMIN
// ════════════════════════════════════════════════════════════════

// Create - POST /v1/admin/blog (JSON hoặc multipart payload + cover_image)
func (h *BlogHandler) Create(c *gin.Context) {
	var req model.CreatePostRequest
	if err := request.BindPayload(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	cover, err := request.Image(c, "cover_image", h.maxUploadSize)
	if err != nil {
		response.FromError(c, err)
		return
	}

	post, err := h.service.Create(c.Request.Context(), req, cover)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, post)
}

// Update - PUT /v1/admin/blog/:id
func (h *BlogHandler) Update(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req model.UpdatePostRequest
	if err := request.BindPayload(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	cover, err := request.Image(c, "cover_image", h.maxUploadSize)
	if err != nil {
		response.FromError(c, err)
		return
	}

	post, err := h.service.Update(c.Request.Context(), id, req, cover)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, post)
}

// Delete - DELETE /v1/admin/blog/:id
func (h *BlogHandler) Delete(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
