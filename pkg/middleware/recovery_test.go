package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRecovery(t *testing.T) {
	t.Run("recovers from panic", func(t *testing.T) {
		buf := captureLog(t)

		router := gin.New()
		router.Use(Recovery())
		router.GET("/test", func(c *gin.Context) {
			panic("boom")
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Internal server error")
		// The panic value is logged, never leaked to the client
		assert.Contains(t, buf.String(), "boom")
		assert.NotContains(t, w.Body.String(), "boom")
	})

	t.Run("recovers from nil pointer panic", func(t *testing.T) {
		captureLog(t)

		router := gin.New()
		router.Use(Recovery())
		router.GET("/test", func(c *gin.Context) {
			var ptr *string
			_ = *ptr
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("passes through without panic", func(t *testing.T) {
		router := gin.New()
		router.Use(Recovery())
		router.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
