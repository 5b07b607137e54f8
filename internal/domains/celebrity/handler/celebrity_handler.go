package handler

import (
	"net/http"

	"celebstyle-backend/internal/domains/celebrity/model"
	"celebstyle-backend/internal/domains/celebrity/service"
	"celebstyle-backend/internal/domains/seo"
	"celebstyle-backend/internal/shared/request"
	"celebstyle-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CelebrityHandler struct {
	service       service.Service
	seo           *seo.Builder
	maxUploadSize int64
}

func NewCelebrityHandler(svc service.Service, seoBuilder *seo.Builder, maxUploadSize int64) *CelebrityHandler {
	return &CelebrityHandler{
		service:       svc,
		seo:           seoBuilder,
		maxUploadSize: maxUploadSize,
	}
}

// DetailResponse - celebrity kèm page metadata
type DetailResponse struct {
	Celebrity *model.Celebrity `json:"celebrity"`
	SEO       seo.PageMeta     `json:"seo"`
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /v1/celebrities?category=&tag=&search=&sort=&page=&limit=
// ════════════════════════════════════════════════════════════════

func (h *CelebrityHandler) List(c *gin.Context) {
	page, limit := request.Pagination(c)

	filter := model.ListFilter{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
		Sort:     c.DefaultQuery("sort", model.SortNewest),
		Limit:    limit,
		Offset:   request.Offset(page, limit),
	}

	celebrities, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, celebrities, response.NewMeta(page, limit, total))
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/celebrities/:idOrSlug
// ════════════════════════════════════════════════════════════════

func (h *CelebrityHandler) Get(c *gin.Context) {
	celebrity, err := h.lookup(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, DetailResponse{
		Celebrity: celebrity,
		SEO:       h.seo.Celebrity(celebrity),
	})
}

// Categories - GET /v1/celebrities/categories (gợi ý cho form admin)
func (h *CelebrityHandler) Categories(c *gin.Context) {
	response.Success(c, http.StatusOK, model.Categories)
}

// ════════════════════════════════════════════════════════════════
// ADMIN: POST /v1/admin/celebrities (JSON hoặc multipart payload + image/cover_image/infobox_image)
// ════════════════════════════════════════════════════════════════

func (h *CelebrityHandler) Create(c *gin.Context) {
	var req model.CreateCelebrityRequest
	if err := request.BindPayload(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	uploads, err := h.uploads(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	celebrity, err := h.service.Create(c.Request.Context(), req, uploads)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, celebrity)
}

// Update - PUT /v1/admin/celebrities/:id
func (h *CelebrityHandler) Update(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req model.UpdateCelebrityRequest
	if err := request.BindPayload(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	uploads, err := h.uploads(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	celebrity, err := h.service.Update(c.Request.Context(), id, req, uploads)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, celebrity)
}

// Delete - DELETE /v1/admin/celebrities/:id?cascade=true
func (h *CelebrityHandler) Delete(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, request.BoolQuery(c, "cascade")); err != nil {
		response.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ════════════════════════════════════════════════════════════════
// HELPERS
// ════════════════════════════════════════════════════════════════

func (h *CelebrityHandler) lookup(c *gin.Context) (*model.Celebrity, error) {
	id, slug := request.IDOrSlug(c, "idOrSlug")
	if id != uuid.Nil {
		return h.service.GetByID(c.Request.Context(), id)
	}
	return h.service.GetBySlug(c.Request.Context(), slug)
}

func (h *CelebrityHandler) uploads(c *gin.Context) (service.Uploads, error) {
	var (
		u   service.Uploads
		err error
	)
	if u.Image, err = request.Image(c, "image", h.maxUploadSize); err != nil {
		return u, err
	}
	if u.CoverImage, err = request.Image(c, "cover_image", h.maxUploadSize); err != nil {
		return u, err
	}
	if u.InfoboxImage, err = request.Image(c, "infobox_image", h.maxUploadSize); err != nil {
		return u, err
	}
	return u, nil
}
