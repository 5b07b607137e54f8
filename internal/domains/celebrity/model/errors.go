package model

import "celebstyle-backend/internal/shared/apperror"

// ============================================
// DOMAIN-SPECIFIC ERROR DEFINITIONS
// ============================================

var (
	// ErrCelebrityNotFound - id/slug không tồn tại
	ErrCelebrityNotFound = apperror.NotFound("CELEBRITY_NOT_FOUND", "Celebrity not found")

	// ErrDuplicateSlug - slug đã được dùng bởi celebrity khác
	ErrDuplicateSlug = apperror.Conflict("DUPLICATE_SLUG", "Celebrity slug already exists")

	// ErrInvalidSlug - name không sinh được slug (VD: toàn ký tự đặc biệt)
	ErrInvalidSlug = apperror.Validation("INVALID_SLUG", "Celebrity slug is invalid or empty")

	// ErrCelebrityHasOutfits - xóa bị từ chối khi còn outfit (dùng cascade=true để xóa cả outfit)
	ErrCelebrityHasOutfits = apperror.Conflict("CELEBRITY_HAS_OUTFITS", "Cannot delete celebrity with associated outfits")
)
