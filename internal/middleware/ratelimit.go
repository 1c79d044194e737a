package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
)

// Counter increments key and returns its value within the current window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := "rl:" + key
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimit allows limit requests per client IP and window for the given scope.
// When the counter is unreachable requests are let through.
func RateLimit(counter Counter, scope string, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := counter.Incr(c.Request.Context(), scope+":"+c.ClientIP(), window)
		if err != nil {
			logs.LogJSON("WARN", "Rate limiter unavailable", map[string]interface{}{
				"route": c.FullPath(),
				"error": err.Error(),
			})
			c.Next()
			return
		}
		if n > limit {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			logs.LogJSON("WARN", "Rate limit exceeded", map[string]interface{}{
				"route": c.FullPath(),
				"extra": c.ClientIP(),
			})
			return
		}
		c.Next()
	}
}
