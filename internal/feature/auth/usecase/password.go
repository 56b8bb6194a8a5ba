package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// ユーザー名の文字数（トリム後）
	minUsernameLength = 3
	maxUsernameLength = 50

	// dummyHash は存在しないアカウントでもログインの処理時間を揃えるためのハッシュです。
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// normalizeUsername は前後の空白を除去してから長さを検証します。
// バインディングの min/max はトリム前の値にしか効かないため、ここで再確認します。
func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	n := utf8.RuneCountInString(username)
	if n < minUsernameLength || n > maxUsernameLength {
		return "", ErrInvalidUsername
	}
	return username, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// normalizeEmail はメールアドレスを小文字化し前後の空白を除去します。
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
