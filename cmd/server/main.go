package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"social_backend/internal/app/di"
	"social_backend/internal/app/router"
	authadapters "social_backend/internal/feature/auth/adapters"
	authhandler "social_backend/internal/feature/auth/transport/handler"
	authusecase "social_backend/internal/feature/auth/usecase"
	engagementadapters "social_backend/internal/feature/engagement/adapters"
	engagementhandler "social_backend/internal/feature/engagement/transport/handler"
	engagementusecase "social_backend/internal/feature/engagement/usecase"
	otpusecase "social_backend/internal/feature/otp/usecase"
	"social_backend/internal/platform/cache"
	"social_backend/internal/platform/config"
	platformdb "social_backend/internal/platform/db"
	platformhandler "social_backend/internal/platform/http/handler"
	jwtmw "social_backend/internal/platform/jwt"
	"social_backend/internal/platform/mail"
	platformredis "social_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := platformdb.Open(cfg.DB, di.Models()...)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Using database for sessions and codes.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Repository
	accountRepo := authadapters.NewAccountGorm(db)
	pendingRepo := authadapters.NewPendingGorm(db)
	sessionRepo := di.NewSessionRepository(rdb, db)
	codeRepo := di.NewCodeRepository(rdb, db)

	// Usecase
	issuer := otpusecase.NewIssuer(codeRepo)
	mailer := mail.NewLogMailer(logger)
	jwtGen := jwtmw.NewGenerator(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	registrationUC := authusecase.NewRegistrationUsecase(accountRepo, pendingRepo, issuer, mailer, cfg.OTP.RegistrationTTL)
	authUC := authusecase.NewAuthUsecase(accountRepo, sessionRepo, jwtGen, cfg.Auth.RefreshTokenTTL)
	passwordUC := authusecase.NewPasswordUsecase(accountRepo, sessionRepo, issuer, mailer, cfg.OTP.ResetTTL)
	ledger := engagementusecase.NewLedger(
		engagementadapters.NewRecordGorm(db),
		cache.NewCachingTargetRepository(rdb, 0, engagementadapters.NewTargetGorm(db), ""),
		engagementadapters.NewCounterGorm(db),
	)

	// 期限切れのコードとセッションを定期削除
	sweeper := otpusecase.NewSweeper(cfg.OTP.SweepInterval,
		otpusecase.SweepTask{Name: "verification_codes", Run: issuer.Sweep},
		otpusecase.SweepTask{Name: "sessions", Run: authUC.SweepSessions},
	)
	go sweeper.Run(ctx)

	// Handler
	handlers := router.Handlers{
		Health:     platformhandler.NewHealthHandler(healthChecks(db, rdb)...),
		Auth:       authhandler.NewAuthHandler(registrationUC, authUC, passwordUC),
		Engagement: engagementhandler.NewEngagementHandler(ledger),

		AuthLimiter: di.NewAuthLimiter(rdb, cfg.Limit),
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.Auth.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. Every authenticated request will be rejected.")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.NewRouter(cfg, handlers),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func healthChecks(db *gorm.DB, rdb *redisv9.Client) []platformhandler.Check {
	checks := []platformhandler.Check{{
		Name: "database",
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	if rdb != nil {
		checks = append(checks, platformhandler.Check{
			Name:  "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	return checks
}
