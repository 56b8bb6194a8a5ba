// Package entity はワンタイム確認コードのモデルを定義します。
package entity

import "time"

// Purpose はコードの用途です。登録用のコードでパスワードはリセットできません。
type Purpose string

const (
	PurposeRegistration  Purpose = "registration"
	PurposePasswordReset Purpose = "password-reset"
)

// VerificationCode は (Subject, Purpose) ごとの短命・1回限りのコードです。
// 保存するのはコード値のSHA-256のみです。
type VerificationCode struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Subject   string    `gorm:"size:255;not null;uniqueIndex:idx_code_subject_purpose" json:"subject"`
	Purpose   Purpose   `gorm:"size:32;not null;uniqueIndex:idx_code_subject_purpose" json:"purpose"`
	CodeHash  string    `gorm:"size:64;not null" json:"code_hash"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for GORM.
func (VerificationCode) TableName() string {
	return "verification_codes"
}

// IsExpired は now が ExpiresAt を過ぎているかを返します。
func (c *VerificationCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
