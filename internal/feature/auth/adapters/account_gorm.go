// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"social_backend/internal/feature/auth/domain/entity"
	"social_backend/internal/feature/auth/usecase"
	platformdb "social_backend/internal/platform/db"
)

// accountGorm はAccountRepositoryインターフェースのGORM実装です。
type accountGorm struct {
	db *gorm.DB
}

// accountGormがAccountRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.AccountRepository = (*accountGorm)(nil)

// NewAccountGorm は指定されたgorm.DB接続でaccountGormの新しいインスタンスを生成します。
func NewAccountGorm(db *gorm.DB) *accountGorm {
	return &accountGorm{db: db}
}

// Create はアカウントをデータベースに追加します。
// メールアドレスまたはユーザー名が重複する場合、usecase.ErrAccountExistsを返します。
func (r *accountGorm) Create(ctx context.Context, a *entity.Account) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if platformdb.IsDuplicateKey(err) {
			return usecase.ErrAccountExists
		}
		return err
	}
	return nil
}

// FindByEmail はメールアドレスでアカウントを取得します。
func (r *accountGorm) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByID はIDでアカウントを取得します。
func (r *accountGorm) FindByID(ctx context.Context, id uint) (*entity.Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *accountGorm) first(ctx context.Context, query string, arg any) (*entity.Account, error) {
	var a entity.Account
	if err := r.db.WithContext(ctx).Where(query, arg).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ExistsByEmailOrUsername はメールアドレスまたはユーザー名が使用済みか確認します。
func (r *accountGorm) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Account{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	return count > 0, err
}

// UpdatePassword はパスワードハッシュを更新します。
func (r *accountGorm) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Account{}).
		Where("id = ?", id).
		Update("password", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrAccountNotFound
	}
	return nil
}
