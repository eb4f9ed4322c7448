package mw

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server/resp"
)

const (
	rateLimitKeyPrefix = "ratelimit:"
	rateLimitWindow    = time.Second
)

// RateLimit caps requests per second per client IP via Redis, so the
// limit holds across instances.
func RateLimit(rdb *redis.Client, limitPerSec int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKeyPrefix + c.ClientIP()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			resp.ErrorKey(c, http.StatusServiceUnavailable, "error.internal")
			c.Abort()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, rateLimitWindow)
		}
		ttl, _ := rdb.TTL(ctx, key).Result()
		if ttl < 0 {
			rdb.Expire(ctx, key, rateLimitWindow)
		}

		if count > int64(limitPerSec) {
			c.Header("Retry-After", "1")
			resp.ErrorKey(c, http.StatusTooManyRequests, "error.rate_limit")
			c.Abort()
			return
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limitPerSec))
		c.Next()
	}
}
