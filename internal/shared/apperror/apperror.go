package apperror

import (
	"context"
	"errors"
	"fmt"
)

// Kind phân loại lỗi theo cách client cần xử lý
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindReferential  Kind = "referential"
	KindAssetUpload  Kind = "asset_upload"
	KindTransient    Kind = "transient"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInternal     Kind = "internal"
)

// AppError là base error cho toàn bộ domain
type AppError struct {
	Kind    Kind              // Loại lỗi (quyết định HTTP status)
	Code    string            // Error code duy nhất (VD: "CELEBRITY_NOT_FOUND")
	Message string            // Human-readable message
	Fields  map[string]string // Field-level messages cho validation errors
	Err     error             // Underlying error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap allows error wrapping compatibility
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is so sánh theo Code để errors.Is hoạt động với các bản copy (Wrap, WithFields)
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Retryable cho biết client có thể thử lại request không
func (e *AppError) Retryable() bool {
	return e.Kind == KindAssetUpload || e.Kind == KindTransient
}

// Wrap trả về bản copy của e với underlying error
func (e *AppError) Wrap(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// WithMessage trả về bản copy của e với message khác
func (e *AppError) WithMessage(format string, args ...any) *AppError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// WithFields trả về bản copy của e với field-level messages
func (e *AppError) WithFields(fields map[string]string) *AppError {
	cp := *e
	cp.Fields = fields
	return &cp
}

// ============================================
// FACTORY FUNCTIONS
// ============================================

func New(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *AppError {
	return New(KindValidation, code, message)
}

func NotFound(code, message string) *AppError {
	return New(KindNotFound, code, message)
}

func Conflict(code, message string) *AppError {
	return New(KindConflict, code, message)
}

func Referential(code, message string) *AppError {
	return New(KindReferential, code, message)
}

func AssetUpload(code, message string) *AppError {
	return New(KindAssetUpload, code, message)
}

// Common errors dùng chung nhiều domain
var (
	ErrInvalidID      = Validation("INVALID_ID", "Invalid ID format")
	ErrInvalidRequest = Validation("INVALID_REQUEST", "Invalid request data")
	ErrUnauthorized   = New(KindUnauthorized, "UNAUTHORIZED", "Authentication required")
	ErrForbidden      = New(KindForbidden, "FORBIDDEN", "Insufficient permissions")
	ErrTransient      = New(KindTransient, "SERVICE_UNAVAILABLE", "Upstream temporarily unavailable")
	ErrInternal       = New(KindInternal, "INTERNAL_ERROR", "Internal server error")
	ErrUploadFailed   = AssetUpload("ASSET_UPLOAD_FAILED", "Failed to upload media, please retry")
	ErrInvalidUpload  = Validation("INVALID_UPLOAD", "Uploaded file is not a supported image")
)

// ============================================
// ERROR CHECKING FUNCTIONS
// ============================================

// As lấy AppError từ chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf trả về Kind của error, context timeout được coi là transient
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransient
	}
	return KindInternal
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}
