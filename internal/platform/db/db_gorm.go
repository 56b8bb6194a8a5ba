// Package db はGORM接続を開き、全アダプター共通のストレージヘルパーを提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"social_backend/internal/platform/config"
)

const (
	connectTimeout = 60 * time.Second
	retryInterval  = 3 * time.Second

	// pgUniqueViolation は unique_violation のSQLSTATEです。
	pgUniqueViolation = "23505"
)

// Opener はDSNからGORM接続を開きます。
type Opener func(dsn string) (*gorm.DB, error)

// gormConfig はドライバーエラーの変換を有効にし、postgres/sqlite のどちらでも
// 一意制約違反を gorm.ErrDuplicatedKey として扱えるようにします。
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// BuildDSN はpostgresのkeyword/value形式DSNを返します。
func BuildDSN(cfg config.DBConfig) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
}

// ConnectWithRetry は成功するか timeout を過ぎるまで opener を呼び出します。
func ConnectWithRetry(dsn string, timeout, interval time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "interval", interval)
		time.Sleep(interval)
	}
}

// Open は設定されたドライバーで接続し、必要ならmodelsをマイグレーションします。
func Open(cfg config.DBConfig, models ...any) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormConfig())
		if err == nil {
			slog.Info("using sqlite", "path", cfg.SQLitePath)
		}
	case "postgres", "":
		db, err = ConnectWithRetry(BuildDSN(cfg), connectTimeout, retryInterval, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gormConfig())
		})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations || cfg.Driver == "sqlite" {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return db, nil
}

// OpenSQLite は Open と同じ設定でsqliteを開きます。
// テストでは ":memory:" で使います。
func OpenSQLite(path string, models ...any) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// ":memory:" への接続はコネクションごとに別DBになるため1本に制限
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models...); err != nil {
		return nil, err
	}
	return db, nil
}

// IsDuplicateKey は err が一意制約違反かどうかを返します。
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
