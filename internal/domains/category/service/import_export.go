package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"celebstyle-backend/internal/domains/category/model"
	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/shared/export"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const exportPageSize = 500

// ============================================================
// CSV IMPORT
// Phase 1: parse → Phase 2: validate ALL rows → Phase 3: insert trong một transaction
// ============================================================
func (s *categoryService) ImportCSV(ctx context.Context, r io.Reader) (*model.ImportResult, error) {
	rows, err := parseImportCSV(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.ErrEmptyImport
	}
	if len(rows) > model.MaxImportRows {
		return nil, model.ErrImportTooLarge.WithMessage("Import file has %d rows, maximum is %d", len(rows), model.MaxImportRows)
	}

	result := &model.ImportResult{TotalRows: len(rows)}

	rowErrors := validateImportRows(rows)
	if len(rowErrors) > 0 {
		result.Errors = rowErrors
		result.FailedRows = countFailedRows(rowErrors)
		log.Warn().
			Int("total_rows", result.TotalRows).
			Int("failed_rows", result.FailedRows).
			Msg("Category import rejected")
		return result, nil
	}

	now := s.now()
	items := make([]*model.Item, 0, len(rows))
	slugs := make(map[string]struct{})
	for _, row := range rows {
		item := row.Request.ToEntity()
		item.ID = uuid.New()
		item.CreatedAt = now
		item.UpdatedAt = now
		items = append(items, item)
		slugs[item.CategorySlug] = struct{}{}
	}

	if err := s.repo.CreateBatch(ctx, items); err != nil {
		return nil, err
	}

	result.Success = true
	result.Imported = len(items)
	for slug := range slugs {
		result.Categories = append(result.Categories, slug)
	}
	sort.Strings(result.Categories)

	log.Info().
		Int("imported", result.Imported).
		Strs("categories", result.Categories).
		Msg("Category items imported")
	return result, nil
}

// parseImportCSV map từng dòng theo header (thứ tự cột tùy ý)
func parseImportCSV(r io.Reader) ([]model.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, model.ErrEmptyImport
		}
		return nil, model.ErrInvalidCSV.Wrap(err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		colIndex[name] = i
	}
	for _, required := range []string{"category_name", "title", "affiliate_link"} {
		if _, ok := colIndex[required]; !ok {
			return nil, model.ErrInvalidCSV.WithMessage("Missing required column %q", required)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, model.ErrInvalidCSV.Wrap(err)
	}

	rows := make([]model.ImportRow, 0, len(records))
	for i, record := range records {
		if isBlankRecord(record) {
			continue
		}
		getCol := func(name string) string {
			idx, ok := colIndex[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		rows = append(rows, model.ImportRow{
			Row: i + 2, // +1 header, +1 vì đếm từ 1
			Request: model.CreateItemRequest{
				CategoryName:  getCol("category_name"),
				Title:         getCol("title"),
				Image:         getCol("image"),
				Price:         getCol("price"),
				Retailer:      getCol("retailer"),
				AffiliateLink: getCol("affiliate_link"),
				Description:   getCol("description"),
			},
		})
	}
	return rows, nil
}

func validateImportRows(rows []model.ImportRow) []model.ImportRowError {
	var rowErrors []model.ImportRowError

	for _, row := range rows {
		if err := row.Request.Validate(); err != nil {
			appErr, ok := apperror.As(apperror.FromValidation(err))
			if !ok || len(appErr.Fields) == 0 {
				rowErrors = append(rowErrors, model.ImportRowError{Row: row.Row, Error: err.Error()})
				continue
			}

			fields := make([]string, 0, len(appErr.Fields))
			for field := range appErr.Fields {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				rowErrors = append(rowErrors, model.ImportRowError{
					Row:   row.Row,
					Field: field,
					Value: fieldValue(row.Request, field),
					Error: appErr.Fields[field],
				})
			}
			continue
		}

		// Tên category chỉ gồm ký tự đặc biệt → slug rỗng
		if row.Request.ToEntity().CategorySlug == "" {
			rowErrors = append(rowErrors, model.ImportRowError{
				Row:   row.Row,
				Field: "category_name",
				Value: row.Request.CategoryName,
				Error: model.ErrInvalidCategory.Message,
			})
		}
	}

	return rowErrors
}

func fieldValue(req model.CreateItemRequest, field string) string {
	switch field {
	case "category_name":
		return req.CategoryName
	case "title":
		return req.Title
	case "image":
		return req.Image
	case "price":
		return req.Price
	case "retailer":
		return req.Retailer
	case "affiliate_link":
		return req.AffiliateLink
	default:
		return ""
	}
}

func countFailedRows(rowErrors []model.ImportRowError) int {
	seen := make(map[int]struct{})
	for _, e := range rowErrors {
		seen[e.Row] = struct{}{}
	}
	return len(seen)
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ============================================================
// XLSX EXPORT
// ============================================================
func (s *categoryService) ExportXLSX(ctx context.Context, filter model.ListFilter) (*excelize.File, error) {
	filter.Limit = exportPageSize
	filter.Offset = 0

	var rows [][]interface{}
	for {
		items, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			price := ""
			if item.PriceAmount != nil {
				price = item.PriceAmount.String()
			}
			rows = append(rows, []interface{}{
				item.CategoryName, item.Title, item.Image, item.Price, price, item.Currency,
				item.Retailer, item.AffiliateLink, item.Description, export.FormatTime(item.CreatedAt),
			})
		}
		filter.Offset += len(items)
		if len(items) == 0 || filter.Offset >= total {
			break
		}
	}

	f, err := export.Build(export.Sheet{
		Name: "Category Items",
		Headers: []string{
			"category_name", "title", "image", "price", "price_amount", "currency",
			"retailer", "affiliate_link", "description", "created_at",
		},
		Rows: rows,
	})
	if err != nil {
		return nil, fmt.Errorf("build category export: %w", err)
	}
	return f, nil
}
