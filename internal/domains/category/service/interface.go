package service

import (
	"context"
	"io"

	"celebstyle-backend/internal/domains/category/model"
	"celebstyle-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type Service interface {
	List(ctx context.Context, filter model.ListFilter) ([]model.Item, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Category(ctx context.Context, slug string) (*model.Category, error)

	// image là ảnh upload (nil = giữ image URL trong request)
	Create(ctx context.Context, req model.CreateItemRequest, image *storage.File) (*model.Item, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateItemRequest, image *storage.File) (*model.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ImportCSV: all-or-nothing. Lỗi từng dòng nằm trong result (Success=false), error chỉ
	// dành cho file hỏng hoặc lỗi DB.
	ImportCSV(ctx context.Context, r io.Reader) (*model.ImportResult, error)
	ExportXLSX(ctx context.Context, filter model.ListFilter) (*excelize.File, error)
}
