package model

import "celebstyle-backend/internal/shared/apperror"

var (
	ErrPostNotFound  = apperror.NotFound("POST_NOT_FOUND", "Blog post not found")
	ErrDuplicateSlug = apperror.Conflict("DUPLICATE_SLUG", "Blog post slug already exists")
	ErrInvalidSlug   = apperror.Validation("INVALID_SLUG", "Blog post slug is invalid or empty")
	ErrTopicNotFound = apperror.NotFound("TOPIC_NOT_FOUND", "Blog topic not found")
)
