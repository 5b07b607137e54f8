package model

import "celebstyle-backend/internal/shared/apperror"

var (
	ErrOutfitNotFound = apperror.NotFound("OUTFIT_NOT_FOUND", "Outfit not found")
	ErrDuplicateSlug  = apperror.Conflict("DUPLICATE_SLUG", "Outfit slug already exists")
	ErrInvalidSlug    = apperror.Validation("INVALID_SLUG", "Outfit slug is invalid or empty")

	// ErrUnknownCelebrity - celebrity_id không tồn tại lúc ghi
	ErrUnknownCelebrity = apperror.Referential("UNKNOWN_CELEBRITY", "Referenced celebrity does not exist")

	// ErrForeignImage - images chứa URL không thuộc gallery hiện tại của outfit
	ErrForeignImage = apperror.Validation("FOREIGN_IMAGE", "Image URL does not belong to this outfit")

	ErrTooManyImages = apperror.Validation("TOO_MANY_IMAGES", "Outfit gallery is limited to 20 images")
)
