package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"celebstyle-backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperror.Validation("X", "bad"), http.StatusBadRequest},
		{"not found", apperror.NotFound("X", "missing"), http.StatusNotFound},
		{"conflict", apperror.Conflict("DUPLICATE_SLUG", "dup"), http.StatusConflict},
		{"referential", apperror.Referential("X", "parent"), http.StatusUnprocessableEntity},
		{"asset upload", apperror.ErrUploadFailed, http.StatusBadGateway},
		{"transient", apperror.ErrTransient, http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable},
		{"wrapped", fmt.Errorf("repo: %w", apperror.NotFound("X", "missing")), http.StatusNotFound},
		{"unauthorized", apperror.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", apperror.ErrForbidden, http.StatusForbidden},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestFromError_WritesFieldDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/admin/celebrities", nil)

	err := apperror.ErrInvalidRequest.WithFields(map[string]string{"name": "name is required"})
	FromError(c, err)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_REQUEST", body.Error.Code)
	assert.Equal(t, map[string]interface{}{"name": "name is required"}, body.Error.Details)
	assert.False(t, body.Error.Retryable)
}

func TestFromError_UploadIsRetryable(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	FromError(c, apperror.ErrUploadFailed.Wrap(errors.New("connection reset")))

	require.Equal(t, http.StatusBadGateway, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Error.Retryable)
	assert.Equal(t, "ASSET_UPLOAD_FAILED", body.Error.Code)
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(2, 20, 41)
	assert.Equal(t, 3, m.TotalPages)
	assert.Equal(t, 0, NewMeta(1, 0, 10).TotalPages)
}
