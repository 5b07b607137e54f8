package model

import "celebstyle-backend/internal/shared/apperror"

var (
	ErrItemNotFound     = apperror.NotFound("CATEGORY_ITEM_NOT_FOUND", "Category item not found")
	ErrCategoryNotFound = apperror.NotFound("CATEGORY_NOT_FOUND", "Category not found")
	ErrInvalidCategory  = apperror.Validation("INVALID_CATEGORY", "Category name must contain letters or digits")

	// CSV import
	ErrEmptyImport    = apperror.Validation("EMPTY_IMPORT", "Import file has no data rows")
	ErrImportTooLarge = apperror.Validation("IMPORT_TOO_LARGE", "Import file has too many rows")
	ErrInvalidCSV     = apperror.Validation("INVALID_CSV", "Import file is not valid CSV")
	ErrImportRows     = apperror.Validation("IMPORT_VALIDATION_FAILED", "Import rejected: some rows are invalid")
)
