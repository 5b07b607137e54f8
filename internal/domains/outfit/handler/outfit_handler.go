package handler

import (
	"context"
	"net/http"

	affiliateModel "celebstyle-backend/internal/domains/affiliate/model"
	celebrityModel "celebstyle-backend/internal/domains/celebrity/model"
	"celebstyle-backend/internal/domains/outfit/model"
	"celebstyle-backend/internal/domains/outfit/service"
	"celebstyle-backend/internal/domains/seo"
	"celebstyle-backend/internal/shared/request"
	"celebstyle-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CelebrityResolver tìm celebrity theo id hoặc slug cho /celebrities/:idOrSlug/outfits
type CelebrityResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*celebrityModel.Celebrity, error)
	GetBySlug(ctx context.Context, slug string) (*celebrityModel.Celebrity, error)
}

// ProductLister - affiliate products của outfit, hiển thị trên trang chi tiết
type ProductLister interface {
	List(ctx context.Context, filter affiliateModel.ListFilter) ([]affiliateModel.Product, int, error)
}

type OutfitHandler struct {
	service       service.Service
	celebrities   CelebrityResolver
	products      ProductLister
	seo           *seo.Builder
	maxUploadSize int64
}

func NewOutfitHandler(
	svc service.Service,
	celebrities CelebrityResolver,
	products ProductLister,
	seoBuilder *seo.Builder,
	maxUploadSize int64,
) *OutfitHandler {
	return &OutfitHandler{
		service:       svc,
		celebrities:   celebrities,
		products:      products,
		seo:           seoBuilder,
		maxUploadSize: maxUploadSize,
	}
}

// DetailResponse - outfit kèm affiliate products và page metadata
type DetailResponse struct {
	Outfit   *model.Outfit            `json:"outfit"`
	Products []affiliateModel.Product `json:"products"`
	SEO      seo.PageMeta             `json:"seo"`
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /v1/outfits?celebrity_id=&category=&tag=&occasion=&search=&sort=&page=&limit=
// ════════════════════════════════════════════════════════════════

func (h *OutfitHandler) List(c *gin.Context) {
	page, limit := request.Pagination(c)
	filter := h.filter(c, page, limit)

	if raw := c.Query("celebrity_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "celebrity_id must be a UUID")
			return
		}
		filter.CelebrityID = &id
	}

	h.list(c, filter, page, limit)
}

// ListByCelebrity - GET /v1/celebrities/:idOrSlug/outfits
func (h *OutfitHandler) ListByCelebrity(c *gin.Context) {
	id, slug := request.IDOrSlug(c, "idOrSlug")

	var (
		celebrity *celebrityModel.Celebrity
		err       error
	)
	if id != uuid.Nil {
		celebrity, err = h.celebrities.GetByID(c.Request.Context(), id)
	} else {
		celebrity, err = h.celebrities.GetBySlug(c.Request.Context(), slug)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}

	page, limit := request.Pagination(c)
	filter := h.filter(c, page, limit)
	filter.CelebrityID = &celebrity.ID

	h.list(c, filter, page, limit)
}

// ════════════════════════════════════════════════════════════════
// READ: GET /v1/outfits/:idOrSlug
// ════════════════════════════════════════════════════════════════

func (h *OutfitHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	id, slug := request.IDOrSlug(c, "idOrSlug")
	var (
		outfit *model.Outfit
		err    error
	)
	if id != uuid.Nil {
		outfit, err = h.service.GetByID(ctx, id)
	} else {
		outfit, err = h.service.GetBySlug(ctx, slug)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}

	// Products lỗi không chặn trang outfit
	products, _, err := h.products.List(ctx, affiliateModel.ListFilter{OutfitID: &outfit.ID, Limit: 100})
	if err != nil {
		log.Warn().Err(err).Str("outfit_id", outfit.ID.String()).Msg("Failed to load outfit products")
		products = []affiliateModel.Product{}
	}

	response.Success(c, http.StatusOK, DetailResponse{
		Outfit:   outfit,
		Products: products,
		SEO:      h.seo.Outfit(outfit, products),
	})
}

// ════════════════════════════════════════════════════════════════
// ADMIN: POST /v1/admin/outfits (JSON hoặc multipart payload + images[])
// ════════════════════════════════════════════════════════════════

func (h *OutfitHandler) Create(c *gin.Context) {
	var req model.CreateOutfitRequest
	if err := request.BindPayload(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	images, err := request.Images(c, "images", model.MaxImages, h.maxUploadSize)
	if err != nil {
		response.FromError(c, err)
		return
	}

	outfit, err := h.service.Create(c.Request.Context(), req, service.Uploads{Images: images})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, outfit)
}

// Update - PUT /v1/admin/outfits/:id
func (h *OutfitHandler) Update(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req model.UpdateOutfitRequest
	if err := request.BindPayload(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	images, err := request.Images(c, "images", model.MaxImages, h.maxUploadSize)
	if err != nil {
		response.FromError(c, err)
		return
	}

	outfit, err := h.service.Update(c.Request.Context(), id, req, service.Uploads{Images: images})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, outfit)
}

// Delete - DELETE /v1/admin/outfits/:id
func (h *OutfitHandler) Delete(c *gin.Context) {
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

// ════════════════════════════════════════════════════════════════
// HELPERS
// ════════════════════════════════════════════════════════════════

func (h *OutfitHandler) filter(c *gin.Context, page, limit int) model.ListFilter {
	return model.ListFilter{
		CelebrityCategory: c.Query("category"),
		Tag:               c.Query("tag"),
		Occasion:          c.Query("occasion"),
		Search:            c.Query("search"),
		Sort:              c.DefaultQuery("sort", model.SortNewest),
		Limit:             limit,
		Offset:            request.Offset(page, limit),
	}
}

func (h *OutfitHandler) list(c *gin.Context, filter model.ListFilter, page, limit int) {
	outfits, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, outfits, response.NewMeta(page, limit, total))
}
