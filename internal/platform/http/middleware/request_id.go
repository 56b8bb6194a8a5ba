// Package middleware holds gin middleware shared by every route.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader はリクエストから読み取り、レスポンスにも返すヘッダーです。
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"

	maxRequestIDLength = 64
)

// RequestID はリクエストIDを割り当てます。
// 呼び出し元のヘッダーが十分短ければそれを再利用します。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID は RequestID が設定したIDを返します。なければ "" です。
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
