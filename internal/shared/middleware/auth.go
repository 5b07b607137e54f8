package middleware

import (
	"strings"

	"celebstyle-backend/internal/shared/response"
	"celebstyle-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TokenValidator là phần của jwt.Manager mà middleware cần
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware - Middleware xác thực JWT token của admin
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}

		// 2. Extract token từ "Bearer <token>"
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Unauthorized(c, "invalid authorization header format")
			return
		}

		// 3. Verify và parse JWT
		claims, err := validator.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(ContextKeyRequestID)).Msg("Rejected access token")
			response.Unauthorized(c, "invalid token")
			return
		}

		adminID, err := uuid.Parse(claims.AdminID)
		if err != nil {
			response.Unauthorized(c, "invalid admin ID in token")
			return
		}

		// 4. Set principal vào context
		c.Set(ContextKeyAdminID, adminID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyRole, claims.Role)

		c.Next()
	}
}

// AdminIDFrom lấy admin ID đã set bởi AuthMiddleware
func AdminIDFrom(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextKeyAdminID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
