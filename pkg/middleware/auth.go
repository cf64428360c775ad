package middleware

import (
	"net/http"
	"strings"

	"snaplink/internal/model"
	"snaplink/internal/service"

	"github.com/gin-gonic/gin"
)

// currentUserKey is the context key the authenticated user is stored under
const currentUserKey = "currentUser"

// Auth verifies the bearer token in the Authorization header and stores the
// authenticated user in the request context.
func Auth(auth service.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "Authorization header is required",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "Authorization header must be in format: Bearer {token}",
			})
			return
		}

		user, err := auth.CurrentUser(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "Could not validate credentials",
			})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser extracts the authenticated user from the context
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}
