package adapters

import (
	"time"

	"gorm.io/gorm"

	"social_backend/internal/feature/auth/domain/entity"
)

// SessionModel はsessionsテーブルのGORMモデルです。
// IDはリフレッシュトークンそのもので、失効済みの行は revoked_at を持ちます。
// (account_id, revoked_at) の複合インデックスはパスワードリセット時の一括失効用です。
type SessionModel struct {
	ID        string     `gorm:"primaryKey;size:64"`
	AccountID uint       `gorm:"not null;index:idx_sessions_account_active,priority:1"`
	UserAgent string     `gorm:"size:512"`
	IPAddress string     `gorm:"size:45"` // IPv6の最大長
	CreatedAt time.Time  `gorm:"not null"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	RevokedAt *time.Time `gorm:"index:idx_sessions_account_active,priority:2"`
}

// TableName returns the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

// unrevoked は失効していない行に絞り込むスコープです。
func unrevoked(db *gorm.DB) *gorm.DB {
	return db.Where("revoked_at IS NULL")
}

// ofAccount はアカウントのセッションに絞り込むスコープを返します。
func ofAccount(accountID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("account_id = ?", accountID)
	}
}

// expiredBefore は期限切れの行に絞り込むスコープを返します。
func expiredBefore(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("expires_at < ?", now)
	}
}

func (m *SessionModel) toEntity() *entity.Session {
	return &entity.Session{
		ID:        m.ID,
		AccountID: m.AccountID,
		UserAgent: m.UserAgent,
		IPAddress: m.IPAddress,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
		RevokedAt: m.RevokedAt,
	}
}

// newSessionModel は発行直後のセッションを行に変換します。
// 失効済みのセッションが保存されることはないため revoked_at は常に空です。
func newSessionModel(s *entity.Session) *SessionModel {
	return &SessionModel{
		ID:        s.ID,
		AccountID: s.AccountID,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
