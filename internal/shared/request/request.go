// Package request gom các helper parse input HTTP dùng chung cho handlers
package request

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"celebstyle-backend/internal/infrastructure/storage"
	"celebstyle-backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	// form field chứa JSON payload trong multipart request
	PayloadField = "payload"
)

// Pagination đọc page/limit từ query, giá trị sai được thay bằng default
func Pagination(c *gin.Context) (page, limit int) {
	page, limit = 1, DefaultLimit
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = min(l, MaxLimit)
	}
	return page, limit
}

// Offset từ page/limit (page bắt đầu từ 1)
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// IDOrSlug: param là UUID thì trả về id, ngược lại là slug
func IDOrSlug(c *gin.Context, param string) (uuid.UUID, string) {
	raw := strings.TrimSpace(c.Param(param))
	if id, err := uuid.Parse(raw); err == nil {
		return id, ""
	}
	return uuid.Nil, strings.ToLower(raw)
}

// ParseID parse path param dạng UUID
func ParseID(c *gin.Context, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apperror.ErrInvalidID.WithMessage("invalid %s", param)
	}
	return id, nil
}

// BoolQuery: "true"/"1" → true, còn lại false
func BoolQuery(c *gin.Context, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key))
	return v
}

// IsMultipart cho biết request có gửi kèm file không
func IsMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// BindPayload đọc JSON body, hoặc field "payload" nếu request là multipart
func BindPayload(c *gin.Context, dest interface{}) error {
	if IsMultipart(c) {
		raw := c.PostForm(PayloadField)
		if raw == "" {
			return apperror.ErrInvalidRequest.WithMessage("missing %q form field", PayloadField)
		}
		if err := json.Unmarshal([]byte(raw), dest); err != nil {
			return apperror.ErrInvalidRequest.WithMessage("invalid payload JSON: %v", err)
		}
		return nil
	}

	if err := c.ShouldBindJSON(dest); err != nil {
		return apperror.ErrInvalidRequest.WithMessage("invalid JSON body: %v", err)
	}
	return nil
}

// Images đọc toàn bộ file của một form field. Request không phải multipart → nil.
func Images(c *gin.Context, field string, maxFiles int, maxSize int64) ([]storage.File, error) {
	if !IsMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperror.ErrInvalidRequest.WithMessage("invalid multipart form: %v", err)
	}

	headers := form.File[field]
	if maxFiles > 0 && len(headers) > maxFiles {
		return nil, apperror.ErrInvalidUpload.
			WithMessage("at most %d files allowed in %q", maxFiles, field).
			WithFields(map[string]string{field: fmt.Sprintf("max %d files", maxFiles)})
	}

	files := make([]storage.File, 0, len(headers))
	for _, fh := range headers {
		if maxSize > 0 && fh.Size > maxSize {
			return nil, apperror.ErrInvalidUpload.
				WithMessage("%s exceeds %dMB", fh.Filename, maxSize/(1024*1024)).
				WithFields(map[string]string{field: "file too large"})
		}
		f, err := fh.Open()
		if err != nil {
			return nil, apperror.ErrInvalidRequest.WithMessage("cannot open %s", fh.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, apperror.ErrInvalidRequest.WithMessage("cannot read %s", fh.Filename)
		}
		files = append(files, storage.File{Name: fh.Filename, Data: data})
	}
	return files, nil
}

// Image đọc file đầu tiên của field (nil nếu không có)
func Image(c *gin.Context, field string, maxSize int64) (*storage.File, error) {
	files, err := Images(c, field, 1, maxSize)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return &files[0], nil
}
