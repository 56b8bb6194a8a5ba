package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewGenerator は各種設定でGeneratorが正しく生成されることを検証します。
func TestNewGenerator(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("my-secret-key", time.Hour)

	require.NotNil(t, gen)
	assert.Equal(t, "my-secret-key", string(gen.secret))
	assert.Equal(t, time.Hour, gen.Expiration())
}

// TestGenerator_GenerateToken は生成されたJWTトークンが有効で正しいクレームを含むことを検証します。
func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userID   uint
		username string
	}{
		{"basic user", 1, "alice"},
		{"large user id", 999999, "bob_the_builder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator("test-secret", time.Hour)
			tokenStr, err := gen.GenerateToken(tt.userID, tt.username)
			require.NoError(t, err)

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				return []byte("test-secret"), nil
			})
			require.NoError(t, err)
			require.True(t, token.Valid)

			claims := token.Claims.(jwt.MapClaims)
			assert.Equal(t, float64(tt.userID), claims["sub"])
			assert.Equal(t, tt.username, claims["username"])

			exp := int64(claims["exp"].(float64))
			assert.InDelta(t, time.Now().Add(time.Hour).Unix(), exp, 5)
		})
	}
}

func TestGenerator_TokenAcceptedByMiddleware(t *testing.T) {
	gen := NewGenerator(testSecret, time.Minute)
	tokenStr, err := gen.GenerateToken(5, "carol")
	require.NoError(t, err)

	id, err := parse(tokenStr, testSecret)

	require.NoError(t, err)
	assert.Equal(t, uint(5), id)
}
