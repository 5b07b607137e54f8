package middleware

import (
	"crypto/subtle"

	"celebstyle-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const APIKeyHeader = "X-API-Key"

// APIKey yêu cầu header X-API-Key khớp với key của website.
// key rỗng → middleware không làm gì (môi trường dev).
func APIKey(key string) gin.HandlerFunc {
	expected := []byte(key)
	return func(c *gin.Context) {
		if len(expected) == 0 {
			c.Next()
			return
		}
		given := []byte(c.GetHeader(APIKeyHeader))
		if subtle.ConstantTimeCompare(given, expected) != 1 {
			response.Unauthorized(c, "Invalid or missing API key")
			c.Abort()
			return
		}
		c.Next()
	}
}
