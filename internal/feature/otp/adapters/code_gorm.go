// Package adapters は確認コードのストレージ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"social_backend/internal/feature/otp/domain/entity"
	"social_backend/internal/feature/otp/usecase"
)

// codeGorm はverification_codesテーブルにコードを保存します。
// (subject, purpose) のユニークインデックスにより、組ごとに最大1件です。
type codeGorm struct {
	db *gorm.DB
}

// codeGorm が CodeRepository を実装していることをコンパイル時に保証
var _ usecase.CodeRepository = (*codeGorm)(nil)

// NewCodeGorm はSQLを使うコードリポジトリを生成します。
func NewCodeGorm(db *gorm.DB) *codeGorm {
	return &codeGorm{db: db}
}

// Save は (subject, purpose) でupsertし、1文で置き換えます。
func (r *codeGorm) Save(ctx context.Context, code *entity.VerificationCode) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject"}, {Name: "purpose"}},
			DoUpdates: clause.AssignmentColumns([]string{"code_hash", "expires_at", "created_at"}),
		}).
		Create(code).Error
}

func (r *codeGorm) Find(ctx context.Context, subject string, purpose entity.Purpose) (*entity.VerificationCode, error) {
	var code entity.VerificationCode
	if err := r.db.WithContext(ctx).
		Where("subject = ? AND purpose = ?", subject, purpose).
		First(&code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCodeNotFound
		}
		return nil, err
	}
	return &code, nil
}

// Consume は条件付き削除です。同時に呼ばれても行を削除できるのは1件だけです。
func (r *codeGorm) Consume(ctx context.Context, subject string, purpose entity.Purpose, codeHash string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("subject = ? AND purpose = ? AND code_hash = ?", subject, purpose, codeHash).
		Delete(&entity.VerificationCode{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *codeGorm) Delete(ctx context.Context, subject string, purpose entity.Purpose) error {
	return r.db.WithContext(ctx).
		Where("subject = ? AND purpose = ?", subject, purpose).
		Delete(&entity.VerificationCode{}).Error
}

func (r *codeGorm) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&entity.VerificationCode{})
	return result.RowsAffected, result.Error
}
