// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はコンストラクタに明示的に渡すトップレベルの設定です。
type Config struct {
	HTTPAddr string
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	OTP      OTPConfig
	CORS     CORSConfig
	Limit    RateLimitConfig
}

// DBConfig はデータベース接続設定を保持します。
type DBConfig struct {
	Driver        string // "postgres" or "sqlite"
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	SSLMode       string
	SQLitePath    string
	RunMigrations bool
}

// RedisConfig はRedis接続設定を保持します。Host が空ならRedisを使いません。
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// AuthConfig holds token settings.
type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// OTPConfig は認証コードの有効期間を保持します。
type OTPConfig struct {
	RegistrationTTL time.Duration
	ResetTTL        time.Duration
	SweepInterval   time.Duration
}

// CORSConfig は許可するオリジンの一覧です。空なら全て許可します。
type CORSConfig struct {
	AllowOrigins []string
}

// RateLimitConfig は /auth エンドポイントをクライアントIPごとに制限します。
// AuthRequests が0なら制限しません。
type RateLimitConfig struct {
	AuthRequests int
	Window       time.Duration
}

// Load は .env（あれば）を読み込んだ後、プロセスの環境変数を読みます。
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	return Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		DB: DBConfig{
			Driver:        getEnv("DB_DRIVER", "postgres"),
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          os.Getenv("DB_USER"),
			Password:      os.Getenv("DB_PASSWORD"),
			Name:          os.Getenv("DB_NAME"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			SQLitePath:    getEnv("SQLITE_PATH", "./social.db"),
			RunMigrations: getBool("RUN_MIGRATIONS", false),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("JWT_SECRET"),
			AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		},
		OTP: OTPConfig{
			RegistrationTTL: time.Duration(getInt("REGISTRATION_OTP_TTL_MINUTES", 10)) * time.Minute,
			ResetTTL:        time.Duration(getInt("RESET_OTP_TTL_MINUTES", 15)) * time.Minute,
			SweepInterval:   getDuration("OTP_SWEEP_INTERVAL", 5*time.Minute),
		},
		CORS: CORSConfig{
			AllowOrigins: getList("CORS_ALLOW_ORIGINS"),
		},
		Limit: RateLimitConfig{
			AuthRequests: getNonNegativeInt("AUTH_RATE_LIMIT", 20),
			Window:       getDuration("AUTH_RATE_WINDOW", time.Minute),
		},
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// getNonNegativeInt は0を有効な値として扱います（0で機能を無効化するキー用）。
func getNonNegativeInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
