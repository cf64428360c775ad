package handler

import (
	"errors"
	"net/http"

	"snaplink/internal/allocator"
	"snaplink/internal/service"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error API response
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// respondError maps the service error taxonomy to stable status codes with
// generic, non-leaking messages.
func respondError(c *gin.Context, err error) {
	var status int
	var message string

	switch {
	case errors.Is(err, service.ErrLinkNotFound):
		status, message = http.StatusNotFound, "Short URL not found"
	case errors.Is(err, service.ErrPermissionDenied):
		status, message = http.StatusForbidden, "Permission denied. Try logging in first"
	case errors.Is(err, allocator.ErrAliasTaken):
		status, message = http.StatusConflict, "Alias is already taken. Try another one."
	case errors.Is(err, allocator.ErrInvalidAlias):
		status, message = http.StatusBadRequest, "Alias must be 5-20 characters: letters, digits, dash, underscore"
	case errors.Is(err, service.ErrInvalidURL):
		status, message = http.StatusBadRequest, "Invalid URL"
	case errors.Is(err, service.ErrInvalidExpiration):
		status, message = http.StatusBadRequest, "Expiration time must be in the future"
	case errors.Is(err, service.ErrUserExists):
		status, message = http.StatusConflict, "User with the same username is already registered"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, service.ErrTokenInvalid):
		status, message = http.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, allocator.ErrExhausted), errors.Is(err, service.ErrServiceUnavailable):
		status, message = http.StatusServiceUnavailable, "Service is unavailable. Try again later"
	default:
		status, message = http.StatusInternalServerError, "Internal server error"
	}

	c.JSON(status, ErrorResponse{Code: status, Message: message})
}
