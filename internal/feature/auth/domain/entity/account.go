// Package entity はauthフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// Account は本登録済みのユーザーです。
// PendingRegistration の本登録によってのみ作成されます。
type Account struct {
	// ID is the unique subject identifier.
	ID uint `gorm:"primaryKey"`

	// Username must be unique across all accounts.
	Username string `gorm:"uniqueIndex;size:50;not null"`

	// Email must be unique across all accounts.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password はbcryptハッシュです。平文は保存しません。
	Password string `gorm:"size:255;not null"`

	// Active は無効化されたアカウントで false になります。無効化しても削除はしません。
	Active bool `gorm:"not null"`

	ActivatedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
