package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mentorhub/internal/pkg/response"
)

// RateLimit enforces a fixed-window per-client request limit backed by
// Redis, so the limit holds across replicas. When Redis is down or not
// configured, requests pass through.
func RateLimit(rdb *redis.Client, requestsPerMinute int, log *zap.Logger) gin.HandlerFunc {
	if rdb == nil || requestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", clientKey(c), window)

		ctx := c.Request.Context()
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, time.Minute)
		}

		remaining := int64(requestsPerMinute) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(requestsPerMinute))
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(requestsPerMinute) {
			c.Writer.Header().Set("Retry-After", strconv.FormatInt(60-(time.Now().Unix()%60), 10))
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	if userID := c.GetInt64("user_id"); userID != 0 {
		return "user:" + strconv.FormatInt(userID, 10)
	}
	return "ip:" + c.ClientIP()
}
