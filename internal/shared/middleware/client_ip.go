package middleware

import (
	"context"

	"celebstyle-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ctxKey string

const (
	ContextKeyClientIP  = "client_ip"
	ContextKeyRequestID = "request_id"
	ContextKeyAdminID   = "admin_id"
	ContextKeyEmail     = "email"
	ContextKeyRole      = "role"

	clientIPCtxKey ctxKey = "client_ip"
)

// RequestID gán request_id cho mỗi request (dùng X-Request-ID nếu client gửi lên)
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// ClientIPMiddleware inject client IP vào gin context và request context
//
// Usage:
//
//	router.Use(middleware.ClientIPMiddleware())
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set(ContextKeyClientIP, clientIP)

		ctx := context.WithValue(c.Request.Context(), clientIPCtxKey, clientIP)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetClientIPFromContext lấy client IP từ context, "" nếu không có
func GetClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPCtxKey).(string); ok {
		return ip
	}
	return ""
}
