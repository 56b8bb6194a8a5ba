package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"social_backend/internal/feature/auth/domain/entity"
	"social_backend/internal/feature/auth/usecase"
)

// sessionGorm はRedis未設定時に使うRDB版のSessionRepositoryです。
type sessionGorm struct {
	db  *gorm.DB
	now func() time.Time
}

// sessionGormがSessionRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.SessionRepository = (*sessionGorm)(nil)

// NewSessionGorm はsessionGormの新しいインスタンスを生成します。
func NewSessionGorm(db *gorm.DB) *sessionGorm {
	return &sessionGorm{db: db, now: time.Now}
}

// Create persists a new session to the database.
func (r *sessionGorm) Create(ctx context.Context, session *entity.Session) error {
	return r.db.WithContext(ctx).Create(newSessionModel(session)).Error
}

// FindByID retrieves a session by its refresh token ID.
func (r *sessionGorm) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return model.toEntity(), nil
}

// Revoke はセッションを失効させます。2回目以降は最初の時刻を保持します。
func (r *sessionGorm) Revoke(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Scopes(unrevoked).
		Where("id = ?", id).
		Update("revoked_at", r.now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&SessionModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return usecase.ErrSessionNotFound
		}
	}
	return nil
}

// RevokeAllByAccountID は指定アカウントの全セッションを失効させます。
func (r *sessionGorm) RevokeAllByAccountID(ctx context.Context, accountID uint) error {
	return r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Scopes(ofAccount(accountID), unrevoked).
		Update("revoked_at", r.now()).Error
}

// DeleteExpired は期限切れセッションをすべて削除します。
func (r *sessionGorm) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Scopes(expiredBefore(r.now())).
		Delete(&SessionModel{})
	return result.RowsAffected, result.Error
}
