package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "social_backend/internal/feature/auth/transport/handler"
	engagementhandler "social_backend/internal/feature/engagement/transport/handler"
	"social_backend/internal/platform/config"
	platformhandler "social_backend/internal/platform/http/handler"
	"social_backend/internal/platform/http/middleware"
	jwtmw "social_backend/internal/platform/jwt"
	"social_backend/internal/shared/ratelimiter"
)

// Handlers は NewRouter がマウントするHTTPハンドラーをまとめます。
type Handlers struct {
	Health     *platformhandler.HealthHandler
	Auth       *authhandler.AuthHandler
	Engagement *engagementhandler.EngagementHandler

	// AuthLimiter は /auth をクライアントIPごとに制限します。nil なら無効です。
	AuthLimiter ratelimiter.Limiter
}

func NewRouter(cfg config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), gin.Logger(), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORS)))

	// 認証不要
	// 導通確認用
	r.Any("/healthz", h.Health.Health)

	authGroup := r.Group("/auth")
	if h.AuthLimiter != nil {
		authGroup.Use(ratelimiter.Middleware(h.AuthLimiter))
	}
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/verify-registration-otp", h.Auth.VerifyRegistration)
		authGroup.POST("/resend-registration-otp", h.Auth.ResendRegistrationCode)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.POST("/forgot-password", h.Auth.ForgotPassword)
		authGroup.POST("/reset-password", h.Auth.ResetPassword)
	}

	// 認証必須: 書き込みと保存一覧
	// 認証任意: 集計と一覧（トークンがあれば自分の状態も返す）
	required := jwtmw.AuthRequired(cfg.Auth.JWTSecret)
	optional := jwtmw.OptionalAuth(cfg.Auth.JWTSecret)

	likes := r.Group("/likes")
	{
		likes.POST("/like", required, h.Engagement.Like)
		likes.DELETE("/unlike/:targetType/:targetId", required, h.Engagement.Unlike)
		likes.GET("/stats/:targetType/:targetId", optional, h.Engagement.LikeStats)
		likes.GET("/:targetType/:targetId", optional, h.Engagement.ListLikes)
	}

	saves := r.Group("/saveposts")
	{
		saves.POST("/save", required, h.Engagement.Save)
		saves.DELETE("/unsave/:postId", required, h.Engagement.Unsave)
		saves.GET("/stats/:postId", optional, h.Engagement.SaveStats)
		saves.GET("/list", required, h.Engagement.ListSaved)
	}

	return r
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	c.ExposeHeaders = append(c.ExposeHeaders, middleware.RequestIDHeader, "Retry-After")
	c.MaxAge = 12 * time.Hour
	if len(cfg.AllowOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowOrigins
	}
	return c
}
