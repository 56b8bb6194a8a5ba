package ratelimiter

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"social_backend/internal/platform/apperr"
	"social_backend/internal/platform/http/response"
)

// ErrTooManyRequests はクライアントがウィンドウの上限を超えたときに返されます。
var ErrTooManyRequests = apperr.New(apperr.KindRateLimited, "TOO_MANY_REQUESTS", "too many requests, try again later")

// Middleware はクライアントIPとルートごとにリクエストを制限します。
// リミッター自体が失敗した場合はリクエストを通します。
func Middleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()
		allowed, retryAfter, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			slog.Error("rate limiter unavailable", "error", err, "remote_addr", c.ClientIP())
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			response.Error(c, "rate limit exceeded", ErrTooManyRequests, "path", c.FullPath())
			return
		}
		c.Next()
	}
}
