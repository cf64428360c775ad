package handler

import (
	"net/http"

	"snaplink/internal/model"
	"snaplink/internal/service"
	"snaplink/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// LinkHandler handles authenticated short link operations
type LinkHandler struct {
	links service.LinkServiceInterface
}

// NewLinkHandler creates a new LinkHandler
func NewLinkHandler(links service.LinkServiceInterface) *LinkHandler {
	return &LinkHandler{links: links}
}

// ShortURLList is the listing API response
type ShortURLList struct {
	ShortURLs []model.ShortenResponse `json:"short_urls"`
}

// DeleteResponse is the delete API response
type DeleteResponse struct {
	ID     uint   `json:"id"`
	Result string `json:"result"`
}

// Shorten handles POST /api/v1/shorten
// @Summary Create a short link
// @Description Creates a short link for the given URL, owned by the caller
// @Tags links
// @Accept json
// @Produce json
// @Param request body model.ShortenRequest true "Shorten request"
// @Security BearerAuth
// @Success 201 {object} model.ShortenResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/shorten [post]
func (h *LinkHandler) Shorten(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Code: http.StatusUnauthorized, Message: "Could not validate credentials"})
		return
	}

	var req model.ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request: " + err.Error(),
		})
		return
	}

	resp, err := h.links.Create(c.Request.Context(), &req, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Stats handles GET /api/v1/stats/:shortCode
// @Summary Get click statistics for a short link
// @Description Returns the long URL and click count; owners only
// @Tags links
// @Produce json
// @Param shortCode path string true "Short code"
// @Security BearerAuth
// @Success 200 {object} model.StatsResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/stats/{shortCode} [get]
func (h *LinkHandler) Stats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Code: http.StatusUnauthorized, Message: "Could not validate credentials"})
		return
	}

	stats, err := h.links.GetStats(c.Request.Context(), c.Param("shortCode"), user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// List handles GET /api/v1/my/urls
// @Summary List the caller's short links
// @Description Lists the caller's links, narrowed by optional filters
// @Tags links
// @Produce json
// @Param min_clicks query int false "Minimum click count"
// @Param max_clicks query int false "Maximum click count"
// @Param active query bool false "Unexpired links only"
// @Param created_after query string false "Created after (RFC3339)"
// @Param created_before query string false "Created before (RFC3339)"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Page offset" default(0)
// @Security BearerAuth
// @Success 200 {object} ShortURLList
// @Router /api/v1/my/urls [get]
func (h *LinkHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Code: http.StatusUnauthorized, Message: "Could not validate credentials"})
		return
	}

	var filters model.LinkFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid filters: " + err.Error(),
		})
		return
	}

	links, err := h.links.List(c.Request.Context(), user, filters)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := ShortURLList{ShortURLs: make([]model.ShortenResponse, 0, len(links))}
	for _, sl := range links {
		resp.ShortURLs = append(resp.ShortURLs, model.ShortenResponse{
			ShortURL:       h.links.ShortURL(sl.ShortCode),
			ShortCode:      sl.ShortCode,
			CreatedAt:      sl.CreatedAt,
			ExpirationTime: sl.ExpirationTime,
			CreatedByUser:  user.Username,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /api/v1/:shortCode
// @Summary Delete a short link
// @Description Deletes a link the caller owns; absent and not-owned look identical
// @Tags links
// @Produce json
// @Param shortCode path string true "Short code"
// @Security BearerAuth
// @Success 200 {object} DeleteResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/{shortCode} [delete]
func (h *LinkHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Code: http.StatusUnauthorized, Message: "Could not validate credentials"})
		return
	}

	id, err := h.links.Delete(c.Request.Context(), c.Param("shortCode"), user)
	if err != nil {
		respondError(c, err)
		return
	}
	if id == nil {
		// Absent or not owned; callers cannot tell which
		c.JSON(http.StatusNotFound, ErrorResponse{Code: http.StatusNotFound, Message: "Short URL not found"})
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{ID: *id, Result: "successfully deleted"})
}
