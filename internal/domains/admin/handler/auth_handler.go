package handler

import (
	"net/http"

	"celebstyle-backend/internal/domains/admin/model"
	"celebstyle-backend/internal/domains/admin/service"
	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/shared/middleware"
	"celebstyle-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service service.Service
}

func NewAuthHandler(svc service.Service) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login - POST /v1/admin/auth/login {email, password}
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.ErrInvalidRequest.Wrap(err))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// Me - GET /v1/admin/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	adminID, ok := middleware.AdminIDFrom(c)
	if !ok {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	admin, err := h.service.Me(c.Request.Context(), adminID)
	if err != nil {
		// Token hợp lệ nhưng admin đã bị xóa
		if apperror.IsNotFound(err) {
			response.FromError(c, apperror.ErrUnauthorized)
			return
		}
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, admin)
}
