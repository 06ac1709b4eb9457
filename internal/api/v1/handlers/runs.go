package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clipnotes/internal/api/v1/dto"
	"clipnotes/internal/api/v1/services"
	apperrors "clipnotes/internal/app/errors"
)

// RunHandler handles pipeline run requests.
type RunHandler struct {
	service services.RunService
}

// NewRunHandler creates a new run handler.
func NewRunHandler(service services.RunService) *RunHandler {
	return &RunHandler{service: service}
}

// Submit handles POST /api/v1/runs
func (h *RunHandler) Submit(c *gin.Context) {
	var req dto.SubmitRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "video_path is required"})
		return
	}

	status, err := h.service.Submit(req.VideoPath)
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrRunInProgress):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		case apperrors.Is(err, apperrors.ErrUnreadableInput):
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
				Error: err.Error(),
				Cause: apperrors.Category(err),
			})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusAccepted, dto.RunResponse{
		ID:        status.ID,
		VideoPath: status.VideoPath,
		State:     status.State,
	})
}

// Events handles GET /api/v1/runs/:id/events
func (h *RunHandler) Events(c *gin.Context) {
	since := 0
	if s := c.Query("since"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			since = n
		}
	}

	status, err := h.service.Get(c.Param("id"), since)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp := dto.RunEventsResponse{
		ID:        status.ID,
		State:     status.State,
		Events:    status.Events,
		NextEvent: status.NextEvent,
		Stage:     string(status.Stage),
		Cause:     status.Cause,
		Entry:     status.Entry,
	}
	if status.Err != nil {
		resp.Error = status.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel handles POST /api/v1/runs/:id/cancel
func (h *RunHandler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "cancelling"})
}
