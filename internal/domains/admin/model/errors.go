package model

import "celebstyle-backend/internal/shared/apperror"

var (
	ErrAdminNotFound = apperror.NotFound("ADMIN_NOT_FOUND", "Admin user not found")

	// Không phân biệt "email không tồn tại" với "sai password"
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrDuplicateEmail     = apperror.Conflict("DUPLICATE_EMAIL", "Admin email already exists")
)
