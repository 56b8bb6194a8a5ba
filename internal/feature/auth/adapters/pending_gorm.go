package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"social_backend/internal/feature/auth/domain/entity"
	"social_backend/internal/feature/auth/usecase"
)

// pendingGorm は仮登録を pending_registrations テーブルに保存します。
type pendingGorm struct {
	db *gorm.DB
}

var _ usecase.PendingRegistrationRepository = (*pendingGorm)(nil)

// NewPendingGorm はpendingGormを生成します。
func NewPendingGorm(db *gorm.DB) *pendingGorm {
	return &pendingGorm{db: db}
}

// Upsert は p を挿入するか、同じメールアドレスの行のユーザー名とパスワードハッシュを上書きします。
func (r *pendingGorm) Upsert(ctx context.Context, p *entity.PendingRegistration) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "password_hash", "updated_at"}),
	}).Create(p).Error
}

// FindByEmail returns usecase.ErrPendingNotFound when no row exists.
func (r *pendingGorm) FindByEmail(ctx context.Context, email string) (*entity.PendingRegistration, error) {
	var p entity.PendingRegistration
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrPendingNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Delete は email の行を削除します。存在しなくてもエラーにしません。
func (r *pendingGorm) Delete(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&entity.PendingRegistration{}).Error
}
