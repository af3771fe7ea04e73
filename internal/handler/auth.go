package handler

import (
	"net/http"

	"stress-index/internal/logger"
	"stress-index/internal/middleware"
	"stress-index/internal/model"
	"stress-index/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   *service.AuthService
	secret []byte
}

func NewAuthHandler(auth *service.AuthService, secret []byte) *AuthHandler {
	return &AuthHandler{auth: auth, secret: secret}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid-argument", Message: "invalid request"})
		return
	}

	u, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login.failed", "email", req.Email)
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "unauthenticated", Message: "invalid credentials"})
		return
	}

	logger.ForUser(u.ID).Info("login.ok", "role", u.Role)

	token, err := middleware.IssueToken(h.secret, u.ID, u.Role)
	if err != nil {
		logger.ForUser(u.ID).Error("login.sign_failed", "err", err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "internal"})
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{
		Token: token,
		User:  model.UserProfile{ID: u.ID, Name: u.Name, Role: u.Role, UniversityID: u.Institution()},
	})
}
