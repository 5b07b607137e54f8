package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout gắn deadline cho request context. Repository và storage nhận ctx này,
// khi hết hạn thì query/upload bị cancel và service trả về transient error.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
