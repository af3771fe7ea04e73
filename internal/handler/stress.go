package handler

import (
	"context"
	"errors"
	"net/http"

	"stress-index/internal/logger"
	"stress-index/internal/middleware"
	"stress-index/internal/model"
	"stress-index/internal/service"
	"stress-index/internal/stress"

	"github.com/gin-gonic/gin"
)

type Recalculator interface {
	Recalculate(ctx context.Context, callerID string) (stress.Summary, error)
}

type StressHandler struct{ svc Recalculator }

func NewStressHandler(svc Recalculator) *StressHandler { return &StressHandler{svc: svc} }

// POST /api/stress/recalculate
func (h *StressHandler) Recalculate(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserID)
	sum, err := h.svc.Recalculate(c.Request.Context(), uid)
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "unauthenticated", Message: "User must be authenticated"})
		return
	case errors.Is(err, service.ErrNotEligible):
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "not-found", Message: "User not found or not a student"})
		return
	case err != nil:
		logger.ForUser(uid).Error("stress.recalculate_failed", "err", err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "internal"})
		return
	}
	c.JSON(http.StatusOK, model.RecalculateResponse{Success: true, FinancialStressIndex: sum.Score})
}
