package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"HTTP_ADDR", "DB_DRIVER", "DB_PORT", "RUN_MIGRATIONS", "REDIS_HOST",
		"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "REGISTRATION_OTP_TTL_MINUTES",
		"RESET_OTP_TTL_MINUTES", "OTP_SWEEP_INTERVAL", "CORS_ALLOW_ORIGINS",
		"AUTH_RATE_LIMIT", "AUTH_RATE_WINDOW",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.False(t, cfg.DB.RunMigrations)
	assert.Empty(t, cfg.Redis.Host)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, 10*time.Minute, cfg.OTP.RegistrationTTL)
	assert.Equal(t, 15*time.Minute, cfg.OTP.ResetTTL)
	assert.Equal(t, 5*time.Minute, cfg.OTP.SweepInterval)
	assert.Nil(t, cfg.CORS.AllowOrigins)
	assert.Equal(t, 20, cfg.Limit.AuthRequests)
	assert.Equal(t, time.Minute, cfg.Limit.Window)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("RUN_MIGRATIONS", "true")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("REGISTRATION_OTP_TTL_MINUTES", "3")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("AUTH_RATE_LIMIT", "5")
	t.Setenv("AUTH_RATE_WINDOW", "30s")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.True(t, cfg.DB.RunMigrations)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 3*time.Minute, cfg.OTP.RegistrationTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
	assert.Equal(t, 5, cfg.Limit.AuthRequests)
	assert.Equal(t, 30*time.Second, cfg.Limit.Window)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("RUN_MIGRATIONS", "maybe")
	t.Setenv("OTP_SWEEP_INTERVAL", "soon")
	t.Setenv("RESET_OTP_TTL_MINUTES", "-4")

	cfg := Load()

	assert.False(t, cfg.DB.RunMigrations)
	assert.Equal(t, 5*time.Minute, cfg.OTP.SweepInterval)
	assert.Equal(t, 15*time.Minute, cfg.OTP.ResetTTL)
}

// AUTH_RATE_LIMIT=0 はレート制限を無効化する
func TestLoad_AuthRateLimitZeroDisables(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "zero disables", value: "0", want: 0},
		{name: "negative falls back", value: "-1", want: 20},
		{name: "garbage falls back", value: "many", want: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AUTH_RATE_LIMIT", tt.value)
			assert.Equal(t, tt.want, Load().Limit.AuthRequests)
		})
	}
}
