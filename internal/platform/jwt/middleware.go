package jwtmw

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"social_backend/internal/platform/apperr"
)

// ContextUserID は認証済みアカウントIDを保持するginコンテキストのキーです。
const ContextUserID = "userID"

var (
	errMissingToken = apperr.New(apperr.KindUnauthorized, "MISSING_TOKEN", "missing bearer token")
	errInvalidToken = apperr.New(apperr.KindUnauthorized, "INVALID_TOKEN", "invalid token")
)

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			status, body := apperr.Response(errMissingToken)
			c.AbortWithStatusJSON(status, body)
			return
		}

		userID, err := parse(strings.TrimPrefix(auth, "Bearer "), secret)
		if err != nil {
			status, body := apperr.Response(errInvalidToken)
			c.AbortWithStatusJSON(status, body)
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// OptionalAuth は有効なBearerトークンがあれば ContextUserID を設定し、
// 匿名リクエストはそのまま通します。不正なトークンは拒否します。
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			status, body := apperr.Response(errMissingToken)
			c.AbortWithStatusJSON(status, body)
			return
		}
		userID, err := parse(strings.TrimPrefix(auth, "Bearer "), secret)
		if err != nil {
			status, body := apperr.Response(errInvalidToken)
			c.AbortWithStatusJSON(status, body)
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID は認証済みアカウントIDを返します。
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func parse(tokenStr, secret string) (uint, error) {
	if secret == "" {
		return 0, errors.New("jwt secret not configured")
	}
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// HMACのみ許可
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(float64) // JWT numbers are decoded as float64
	if !ok || sub <= 0 {
		return 0, errors.New("invalid subject")
	}
	return uint(sub), nil
}
