package handler

import (
	"net/http"

	"celebstyle-backend/internal/domains/category/model"
	"celebstyle-backend/internal/domains/category/service"
	"celebstyle-backend/internal/domains/seo"
	"celebstyle-backend/internal/shared/export"
	"celebstyle-backend/internal/shared/request"
	"celebstyle-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// maxImportFileSize - file CSV 1000 dòng không bao giờ vượt quá mức này
const maxImportFileSize = 5 << 20

type CategoryHandler struct {
	service       service.Service
	seo           *seo.Builder
	maxUploadSize int64
}

func NewCategoryHandler(svc service.Service, seoBuilder *seo.Builder, maxUploadSize int64) *CategoryHandler {
	return &CategoryHandler{
		service:       svc,
		seo:           seoBuilder,
		maxUploadSize: maxUploadSize,
	}
}

type CategoryResponse struct {
	Category *model.Category `json:"category"`
	Items    []model.Item    `json:"items"`
	SEO      seo.PageMeta    `json:"seo"`
}

// ════════════════════════════════════════════════════════════════
// PUBLIC
// ════════════════════════════════════════════════════════════════

// Categories - GET /v1/categories
func (h *CategoryHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

// Category - GET /v1/categories/:category?sort=&retailer=&search=&page=&limit=
func (h *CategoryHandler) Category(c *gin.Context) {
	ctx := c.Request.Context()

	category, err := h.service.Category(ctx, c.Param("category"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	page, limit := request.Pagination(c)
	items, total, err := h.service.List(ctx, model.ListFilter{
		CategorySlug: category.Slug,
		Retailer:     c.Query("retailer"),
		Search:       c.Query("search"),
		Sort:         c.DefaultQuery("sort", model.SortNewest),
		Limit:        limit,
		Offset:       request.Offset(page, limit),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, CategoryResponse{
		Category: category,
		Items:    items,
		SEO:      h.seo.Category(*category, items),
	}, response.NewMeta(page, limit, total))
}

// ════════════════════════════════════════════════════════════════
// ADMIN
// ════════════════════════════════════════════════════════════════

// List - GET /v1/admin/category-items?category=&retailer=&search=&sort=
func (h *CategoryHandler) List(c *gin.Context) {
	page, limit := request.Pagination(c)

	items, total, err := h.service.List(c.Request.Context(), h.filter(c, limit, request.Offset(page, limit)))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, items, response.NewMeta(page, limit, total))
}

// Get - GET /v1/admin/category-items/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// Create - POST /v1/admin/category-items (JSON hoặc multipart payload + image)
func (h *CategoryHandler) Create(c *gin.Context) {
	var req model.CreateItemRequest
	if err := request.BindPayload(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	image, err := request.Image(c, "image", h.maxUploadSize)
	if err != nil {
		response.FromError(c, err)
		return
	}

	item, err := h.service.Create(c.Request.Context(), req, image)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, item)
}

// Update - PUT /v1/admin/category-items/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := request.ParseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req model.UpdateItemRequest
	if err := request.BindPayload(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	image, err := request.Image(c, "image", h.maxUploadSize)
	if err != nil {
		response.FromError(c, err)
		return
	}

	item, err := h.service.Update(c.Request.Context(), id, req, image)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, item)
}

// Delete - DELETE /v1/admin/category-items/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
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

// Import - POST /v1/admin/category-items/import (multipart "file")
// 201 khi toàn bộ dòng hợp lệ, 422 kèm danh sách lỗi từng dòng nếu không (không dòng nào được ghi)
func (h *CategoryHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "CSV file is required (field: file)")
		return
	}
	if fileHeader.Size > maxImportFileSize {
		response.FromError(c, model.ErrImportTooLarge.WithMessage("Import file exceeds %d bytes", maxImportFileSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Failed to open uploaded file")
		return
	}
	defer file.Close()

	result, err := h.service.ImportCSV(c.Request.Context(), file)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if !result.Success {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, response.Response{
			Success: false,
			Data:    result,
			Error: &response.ErrorBody{
				Code:    model.ErrImportRows.Code,
				Message: model.ErrImportRows.Message,
				Details: result.Errors,
			},
		})
		return
	}

	log.Info().
		Str("filename", fileHeader.Filename).
		Int("imported", result.Imported).
		Msg("Category CSV import completed")
	response.Success(c, http.StatusCreated, result)
}

// Export - GET /v1/admin/category-items/export (cùng filter với List)
func (h *CategoryHandler) Export(c *gin.Context) {
	f, err := h.service.ExportXLSX(c.Request.Context(), h.filter(c, 0, 0))
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := export.Write(c, f, "category-items"); err != nil {
		log.Error().Err(err).Msg("Failed to stream category items export")
	}
}

func (h *CategoryHandler) filter(c *gin.Context, limit, offset int) model.ListFilter {
	return model.ListFilter{
		CategorySlug: c.Query("category"),
		Retailer:     c.Query("retailer"),
		Search:       c.Query("search"),
		Sort:         c.DefaultQuery("sort", model.SortNewest),
		Limit:        limit,
		Offset:       offset,
	}
}
