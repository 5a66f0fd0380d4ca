package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexandre-hallaine/Camagru/internal/usecase"
)

// OverlaysHandler serves the overlay assets for the client composer.
type OverlaysHandler struct {
	overlays *usecase.OverlayService
}

// NewOverlaysHandler constructs the overlays handler.
func NewOverlaysHandler(overlays *usecase.OverlayService) *OverlaysHandler {
	return &OverlaysHandler{overlays: overlays}
}

// List returns every overlay as a slug plus a data URL.
func (h *OverlaysHandler) List(c *gin.Context) {
	overlays, err := h.overlays.List(c.Request.Context())
	if err != nil {
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load overlays"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"overlays": overlays})
}
