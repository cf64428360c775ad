package handler

import (
	"net/http"

	"snaplink/internal/service"

	"github.com/gin-gonic/gin"
)

// RedirectHandler handles public short link resolution
type RedirectHandler struct {
	links service.LinkServiceInterface
}

// NewRedirectHandler creates a new RedirectHandler
func NewRedirectHandler(links service.LinkServiceInterface) *RedirectHandler {
	return &RedirectHandler{links: links}
}

// Redirect handles GET /:shortCode
// @Summary Redirect to the original URL
// @Description Resolves a short code, records the click, and issues a 307
// @Tags redirect
// @Param shortCode path string true "Short code"
// @Success 307
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /{shortCode} [get]
func (h *RedirectHandler) Redirect(c *gin.Context) {
	shortCode := c.Param("shortCode")

	longURL, err := h.links.Resolve(c.Request.Context(), shortCode)
	if err != nil {
		respondError(c, err)
		return
	}

	// Click accounting happens in-request, after resolution, so a failed
	// lookup never counts as a hit and an aborted request simply loses one.
	if err := h.links.RecordHit(c.Request.Context(), shortCode); err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, longURL)
}
