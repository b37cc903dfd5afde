package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/portico/backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRateLimitedRouter(t *testing.T, maxPerDay int) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(UploadRateLimit(client, &config.Config{UploadMaxPerDay: maxPerDay}))
	router.POST("/upload", func(c *gin.Context) { c.Status(http.StatusCreated) })
	router.GET("/upload", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router, mr
}

func postUpload(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
	return w
}

func TestUploadRateLimitCapsDailyUploads(t *testing.T) {
	router, _ := newRateLimitedRouter(t, 2)

	require.Equal(t, http.StatusCreated, postUpload(router).Code)
	require.Equal(t, http.StatusCreated, postUpload(router).Code)

	w := postUpload(router)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), "upload_rate_limit_exceeded")
}

func TestUploadRateLimitCounterExpires(t *testing.T) {
	router, mr := newRateLimitedRouter(t, 1)

	require.Equal(t, http.StatusCreated, postUpload(router).Code)
	require.Equal(t, http.StatusTooManyRequests, postUpload(router).Code)

	// Past midnight the counter is gone and the client starts fresh.
	mr.FastForward(25 * time.Hour)
	require.Equal(t, http.StatusCreated, postUpload(router).Code)
}

func TestUploadRateLimitIgnoresNonPost(t *testing.T) {
	router, mr := newRateLimitedRouter(t, 1)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/upload", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, mr.Keys(), "reads must not touch the counter")
}
