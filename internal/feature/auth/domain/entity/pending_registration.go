package entity

import "time"

// PendingRegistration はメール確認が済むまでの登録情報です。
// メールアドレスごとに最大1件で、再登録すると上書きされます。
type PendingRegistration struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	Username     string `gorm:"size:50;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
