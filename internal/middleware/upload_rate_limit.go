package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portico/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// UploadRateLimit caps uploads per client per day. The counter lives in Redis
// and expires at midnight so the window is predictable. Redis being down never
// blocks an upload.
func UploadRateLimit(redisClient *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := context.Background()
		now := time.Now()
		key := fmt.Sprintf("upload_limit:%s:%s", c.ClientIP(), now.Format("2006-01-02"))
		midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())

		// One atomic round trip: INCR creates the counter when absent and
		// EXPIRE NX pins its lifetime exactly once, so concurrent first-of-day
		// requests cannot double-initialize it.
		pipe := redisClient.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, midnight.Sub(now))
		if _, err := pipe.Exec(ctx); err != nil {
			c.Next()
			return
		}

		if count := incr.Val(); count > int64(cfg.UploadMaxPerDay) {
			ttl, _ := redisClient.TTL(ctx, key).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":               "upload_rate_limit_exceeded",
				"message":             "Too many uploads today. Please try again tomorrow.",
				"retry_after_hours":   int(ttl.Hours()),
				"uploads_today":       count,
				"max_uploads_per_day": cfg.UploadMaxPerDay,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
