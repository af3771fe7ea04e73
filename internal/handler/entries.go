package handler

import (
	"context"
	"errors"
	"net/http"

	"stress-index/internal/middleware"
	"stress-index/internal/model"
	"stress-index/internal/service"

	"github.com/gin-gonic/gin"
)

type EntryRecorder interface {
	RecordMood(ctx context.Context, userID string, in service.MoodInput) (*model.MoodEntry, error)
	RecordSpending(ctx context.Context, userID string, in service.SpendingInput) (*model.SpendingEntry, error)
}

type EntryHandler struct{ svc EntryRecorder }

func NewEntryHandler(svc EntryRecorder) *EntryHandler { return &EntryHandler{svc: svc} }

// POST /api/moods
func (h *EntryHandler) CreateMood(c *gin.Context) {
	var req service.MoodInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid-argument", Message: "invalid request"})
		return
	}
	e, err := h.svc.RecordMood(c.Request.Context(), c.GetString(middleware.CtxUserID), req)
	if err != nil {
		writeEntryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// POST /api/spending
func (h *EntryHandler) CreateSpending(c *gin.Context) {
	var req service.SpendingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid-argument", Message: "invalid request"})
		return
	}
	e, err := h.svc.RecordSpending(c.Request.Context(), c.GetString(middleware.CtxUserID), req)
	if err != nil {
		writeEntryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func writeEntryError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrFutureEntry) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid-argument", Message: err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "internal"})
}
