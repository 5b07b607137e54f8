package model

import "celebstyle-backend/internal/shared/apperror"

var (
	ErrProductNotFound = apperror.NotFound("PRODUCT_NOT_FOUND", "Affiliate product not found")
	ErrUnknownOutfit   = apperror.Referential("UNKNOWN_OUTFIT", "Referenced outfit does not exist")
)
