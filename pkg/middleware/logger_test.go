package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// captureLog redirects the global logger into a buffer for the duration of
// the test.
func captureLog(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = orig })
	return &buf
}

func TestLogger(t *testing.T) {
	t.Run("logs method, path and status", func(t *testing.T) {
		buf := captureLog(t)

		router := gin.New()
		router.Use(Logger())
		router.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test?param=value", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		out := buf.String()
		assert.Contains(t, out, `"method":"GET"`)
		assert.Contains(t, out, `"path":"/test"`)
		assert.Contains(t, out, `"query":"param=value"`)
		assert.Contains(t, out, `"status":200`)
		assert.Contains(t, out, `"level":"info"`)
	})

	t.Run("logs response size", func(t *testing.T) {
		buf := captureLog(t)

		router := gin.New()
		router.Use(Logger())
		router.POST("/test", func(c *gin.Context) {
			c.String(http.StatusCreated, "created")
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/test", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, buf.String(), `"size":7`)
	})

	t.Run("server errors log at error level", func(t *testing.T) {
		buf := captureLog(t)

		router := gin.New()
		router.Use(Logger())
		router.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, buf.String(), `"level":"error"`)
	})

	t.Run("client errors stay at info level", func(t *testing.T) {
		buf := captureLog(t)

		router := gin.New()
		router.Use(Logger())

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/missing", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, buf.String(), `"level":"info"`)
	})
}
