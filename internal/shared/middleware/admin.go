package middleware

import (
	"celebstyle-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// AdminMiddleware cho phép role admin và editor vào back office
func AdminMiddleware() gin.HandlerFunc {
	return RequireRole(RoleAdmin, RoleEditor)
}

// RequireRole checks role (set by AuthMiddleware) nằm trong danh sách cho phép
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextKeyRole)
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "Access denied: insufficient role")
			return
		}
		c.Next()
	}
}
