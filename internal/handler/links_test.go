package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaplink/internal/allocator"
	"snaplink/internal/mocks"
	"snaplink/internal/model"
	"snaplink/internal/service"
	"snaplink/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testUser = &model.User{ID: 1, Username: "alice"}

// newAuthedRouter routes the authenticated link API behind the real auth
// middleware, with the token "token" resolving to testUser.
func newAuthedRouter(ctrl *gomock.Controller, h *LinkHandler) *gin.Engine {
	mockAuth := mocks.NewMockAuthServiceInterface(ctrl)
	mockAuth.EXPECT().CurrentUser(gomock.Any(), "token").Return(testUser, nil).AnyTimes()

	router := gin.New()
	router.Use(gin.Recovery())
	authorized := router.Group("/api/v1", middleware.Auth(mockAuth))
	authorized.POST("/shorten", h.Shorten)
	authorized.GET("/stats/:shortCode", h.Stats)
	authorized.GET("/my/urls", h.List)
	authorized.DELETE("/:shortCode", h.Delete)
	return router
}

func authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	req.Header.Set("Authorization", "Bearer token")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func TestNewLinkHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	assert.NotNil(t, NewLinkHandler(mocks.NewMockLinkServiceInterface(ctrl)))
}

func TestLinkHandler_Shorten(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLinks := mocks.NewMockLinkServiceInterface(ctrl)
	router := newAuthedRouter(ctrl, NewLinkHandler(mockLinks))

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/shorten", bytes.NewBufferString(`{"url":"https://example.com"}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("POST", "/api/v1/shorten", []byte("{invalid json")))

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Message, "Invalid request")
	})

	t.Run("missing url field", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("POST", "/api/v1/shorten", []byte(`{"custom_alias":"my-link"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("created", func(t *testing.T) {
		now := time.Now().UTC()
		exp := now.Add(3 * time.Hour)
		mockLinks.EXPECT().Create(gomock.Any(), gomock.Any(), testUser).Return(&model.ShortenResponse{
			ShortURL:       "https://s.example.com/Ab3_x9",
			ShortCode:      "Ab3_x9",
			CreatedAt:      now,
			ExpirationTime: &exp,
			CreatedByUser:  "alice",
		}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("POST", "/api/v1/shorten", []byte(`{"url":"https://example.com"}`)))

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp model.ShortenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Ab3_x9", resp.ShortCode)
		assert.Equal(t, "https://s.example.com/Ab3_x9", resp.ShortURL)
		assert.Equal(t, "alice", resp.CreatedByUser)
	})

	t.Run("alias taken", func(t *testing.T) {
		mockLinks.EXPECT().Create(gomock.Any(), gomock.Any(), testUser).Return(nil, allocator.ErrAliasTaken)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("POST", "/api/v1/shorten", []byte(`{"url":"https://example.com","custom_alias":"taken"}`)))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid alias", func(t *testing.T) {
		mockLinks.EXPECT().Create(gomock.Any(), gomock.Any(), testUser).Return(nil, allocator.ErrInvalidAlias)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("POST", "/api/v1/shorten", []byte(`{"url":"https://example.com","custom_alias":"x"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("expiration in the past", func(t *testing.T) {
		mockLinks.EXPECT().Create(gomock.Any(), gomock.Any(), testUser).Return(nil, service.ErrInvalidExpiration)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("POST", "/api/v1/shorten", []byte(`{"url":"https://example.com","expiration_time":"2020-01-01T00:00:00Z"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service unavailable", func(t *testing.T) {
		mockLinks.EXPECT().Create(gomock.Any(), gomock.Any(), testUser).Return(nil, service.ErrServiceUnavailable)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("POST", "/api/v1/shorten", []byte(`{"url":"https://example.com"}`)))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestLinkHandler_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLinks := mocks.NewMockLinkServiceInterface(ctrl)
	router := newAuthedRouter(ctrl, NewLinkHandler(mockLinks))

	t.Run("owner reads stats", func(t *testing.T) {
		mockLinks.EXPECT().GetStats(gomock.Any(), "Ab3_x9", testUser).Return(&model.StatsResponse{
			OriginalURL: "https://example.com",
			Clicks:      42,
		}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("GET", "/api/v1/stats/Ab3_x9", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var resp model.StatsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "https://example.com", resp.OriginalURL)
		assert.Equal(t, int64(42), resp.Clicks)
	})

	t.Run("unknown short code", func(t *testing.T) {
		mockLinks.EXPECT().GetStats(gomock.Any(), "missing", testUser).Return(nil, service.ErrLinkNotFound)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("GET", "/api/v1/stats/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("foreign short code", func(t *testing.T) {
		mockLinks.EXPECT().GetStats(gomock.Any(), "Ab3_x9", testUser).Return(nil, service.ErrPermissionDenied)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("GET", "/api/v1/stats/Ab3_x9", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLinkHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLinks := mocks.NewMockLinkServiceInterface(ctrl)
	router := newAuthedRouter(ctrl, NewLinkHandler(mockLinks))

	t.Run("plain listing", func(t *testing.T) {
		now := time.Now().UTC()
		mockLinks.EXPECT().List(gomock.Any(), testUser, gomock.Any()).Return([]model.ShortLink{
			{ShortCode: "Ab3_x9", OwnerID: 1, CreatedAt: now},
			{ShortCode: "my-link", OwnerID: 1, CreatedAt: now.Add(-time.Hour)},
		}, nil)
		mockLinks.EXPECT().ShortURL("Ab3_x9").Return("https://s.example.com/Ab3_x9")
		mockLinks.EXPECT().ShortURL("my-link").Return("https://s.example.com/my-link")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("GET", "/api/v1/my/urls", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var resp ShortURLList
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.ShortURLs, 2)
		assert.Equal(t, "https://s.example.com/Ab3_x9", resp.ShortURLs[0].ShortURL)
		assert.Equal(t, "alice", resp.ShortURLs[0].CreatedByUser)
	})

	t.Run("filters are bound from the query", func(t *testing.T) {
		mockLinks.EXPECT().List(gomock.Any(), testUser, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *model.User, filters model.LinkFilters) ([]model.ShortLink, error) {
				require.NotNil(t, filters.MinClicks)
				assert.Equal(t, int64(3), *filters.MinClicks)
				require.NotNil(t, filters.Active)
				assert.True(t, *filters.Active)
				assert.Equal(t, 5, filters.Limit)
				return nil, nil
			})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("GET", "/api/v1/my/urls?min_clicks=3&active=true&limit=5", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var resp ShortURLList
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.ShortURLs)
	})

	t.Run("malformed filter value", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("GET", "/api/v1/my/urls?min_clicks=many", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLinkHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLinks := mocks.NewMockLinkServiceInterface(ctrl)
	router := newAuthedRouter(ctrl, NewLinkHandler(mockLinks))

	t.Run("deleted", func(t *testing.T) {
		id := uint(7)
		mockLinks.EXPECT().Delete(gomock.Any(), "Ab3_x9", testUser).Return(&id, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("DELETE", "/api/v1/Ab3_x9", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var resp DeleteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, uint(7), resp.ID)
		assert.Equal(t, "successfully deleted", resp.Result)
	})

	t.Run("absent or foreign link", func(t *testing.T) {
		mockLinks.EXPECT().Delete(gomock.Any(), "Ab3_x9", testUser).Return(nil, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("DELETE", "/api/v1/Ab3_x9", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Short URL not found", resp.Message)
	})

	t.Run("storage failure", func(t *testing.T) {
		mockLinks.EXPECT().Delete(gomock.Any(), "Ab3_x9", testUser).Return(nil, service.ErrServiceUnavailable)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest("DELETE", "/api/v1/Ab3_x9", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
