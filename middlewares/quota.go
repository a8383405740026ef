package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type QuotaRule struct {
	Limit  int                       // requests allowed per window
	Window time.Duration             // window length, starts at the first request
	KeyFn  func(*gin.Context) string // empty key skips the quota
}

// Quota counts requests per key in Redis and answers 429 once the limit is
// reached. If Redis is unavailable the request is let through.
func Quota(rdb *redis.Client, rule QuotaRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rule.KeyFn(c)
		if key == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		// INCR creates the key at 0 when missing, so n is the count including
		// this request.
		n, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis is down: let the request through rather than block everyone.
			slog.WarnContext(ctx, "quota check skipped", "key", key, "err", err)
			c.Next()
			return
		}
		// first hit opens the window; the key expires with it
		if n == 1 {
			_ = rdb.Expire(ctx, key, rule.Window).Err()
		}
		if int(n) > rule.Limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Usage quota exceeded. Please try again later.",
			})
			return
		}
		c.Header("X-Quota-Used", fmt.Sprintf("%d/%d", n, rule.Limit)) // e.g. X-Quota-Used: 5/50
		c.Next()
	}
}

// UserQuotaKey keys a quota by authenticated user and name; anonymous
// requests are not counted.
func UserQuotaKey(name string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		uid := c.GetInt64(ctxUserID)
		if uid == 0 {
			return ""
		}
		return fmt.Sprintf("quota:%s:user:%d", name, uid)
	}
}
