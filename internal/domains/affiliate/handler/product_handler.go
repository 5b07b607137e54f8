package handler

import (
	"context"
	"net/http"

	"celebstyle-backend/internal/domains/affiliate/model"
	"celebstyle-backend/internal/domains/affiliate/service"
	outfitModel "celebstyle-backend/internal/domains/outfit/model"
	"celebstyle-backend/internal/shared/request"
	"celebstyle-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OutfitResolver tìm outfit theo id hoặc slug cho /outfits/:idOrSlug/products
type OutfitResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*outfitModel.Outfit, error)
	GetBySlug(ctx context.Context, slug string) (*outfitModel.Outfit, error)
}

type ProductHandler struct {
	service       service.Service
	outfits       OutfitResolver
	maxUploadSize int64
}

func NewProductHandler(svc service.Service, outfits OutfitResolver, maxUploadSize int64) *ProductHandler {
	return &ProductHandler{
		service:       svc,
		outfits:       outfits,
		maxUploadSize: maxUploadSize,
	}
}

// ListByOutfit - GET /v1/outfits/:idOrSlug/products
func (h *ProductHandler) ListByOutfit(c *gin.Context) {
	ctx := c.Request.Context()

	id, slug := request.IDOrSlug(c, "idOrSlug")
	var (
		outfit *outfitModel.Outfit
		err    error
	)
	if id != uuid.Nil {
		outfit, err = h.outfits.GetByID(ctx, id)
	} else {
		outfit, err = h.outfits.GetBySlug(ctx, slug)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}

	page, limit := request.Pagination(c)
	products, total, err := h.service.List(ctx, model.ListFilter{
		OutfitID: &outfit.ID,
		Limit:    limit,
		Offset:   request.Offset(page, limit),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, products, response.NewMeta(page, limit, total))
}

// ════════════════════════════════════════════════════════════════
// ADMIN
// ════════════════════════════════════════════════════════════════

// List - GET /v1/admin/products?outfit_id=&retailer=&search=
func (h *ProductHandler) List(c *gin.Context) {
	page, limit := request.Pagination(c)
	filter := model.ListFilter{
		Retailer: c.Query("retailer"),
		Search:   c.Query("search"),
		Limit:    limit,
		Offset:   request.Offset(page, limit),
	}
	if raw := c.Query("outfit_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "outfit_id must be a UUID")
			return
		}
		filter.OutfitID = &id
	}

	products, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, products, response.NewMeta(page, limit, total))
}

// Get - GET /v1/admin/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	product, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, product)
}

// Create - POST /v1/admin/products (JSON hoặc multipart payload + image)
func (h *ProductHandler) Create(c *gin.Context) {
	var req model.CreateProductRequest
	if err := request.BindPayload(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	image, err := request.Image(c, "image", h.maxUploadSize)
	if err != nil {
		response.FromError(c, err)
		return
	}

	product, err := h.service.Create(c.Request.Context(), req, image)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, product)
}

// Update - PUT /v1/admin/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req model.UpdateProductRequest
	if err := request.BindPayload(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	image, err := request.Image(c, "image", h.maxUploadSize)
	if err != nil {
		response.FromError(c, err)
		return
	}

	product, err := h.service.Update(c.Request.Context(), id, req, image)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, product)
}

// Delete - DELETE /v1/admin/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
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
