package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clipnotes/internal/api/v1/dto"
	"clipnotes/internal/api/v1/services"
	apperrors "clipnotes/internal/app/errors"
)

// CacheHandler exposes cached run artifacts.
type CacheHandler struct {
	service services.CacheService
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(service services.CacheService) *CacheHandler {
	return &CacheHandler{service: service}
}

// List handles GET /api/v1/cache
func (h *CacheHandler) List(c *gin.Context) {
	entries, err := h.service.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// Get handles GET /api/v1/cache/:fingerprint
func (h *CacheHandler) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Param("fingerprint"))
	if err != nil {
		if apperrors.Is(err, services.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Delete handles DELETE /api/v1/cache/:fingerprint
func (h *CacheHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("fingerprint")); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
