// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "social_backend/internal/feature/auth/adapters"
	authusecase "social_backend/internal/feature/auth/usecase"
	otpadapters "social_backend/internal/feature/otp/adapters"
	otpusecase "social_backend/internal/feature/otp/usecase"
	"social_backend/internal/platform/config"
	"social_backend/internal/shared/ratelimiter"
)

// NewSessionRepository creates a SessionRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the database.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB) authusecase.SessionRepository {
	if rdb != nil {
		return authadapters.NewSessionRedis(rdb, "session")
	}
	return authadapters.NewSessionGorm(db)
}

// NewCodeRepository も同じ方針で認証コードのストアを選びます。
func NewCodeRepository(rdb *redis.Client, db *gorm.DB) otpusecase.CodeRepository {
	if rdb != nil {
		return otpadapters.NewCodeRedis(rdb, "otp")
	}
	return otpadapters.NewCodeGorm(db)
}

// NewAuthLimiter は /auth のレートリミッターを返します。Redisがあれば共有し、
// 制限が無効なら nil を返します。
func NewAuthLimiter(rdb *redis.Client, cfg config.RateLimitConfig) ratelimiter.Limiter {
	if cfg.AuthRequests <= 0 {
		return nil
	}
	if rdb != nil {
		return ratelimiter.NewRedisLimiter(rdb, "ratelimit:auth", cfg.AuthRequests, cfg.Window)
	}
	return ratelimiter.NewRateLimiter(cfg.AuthRequests, cfg.Window)
}
