// Package usecase は仮登録、本登録、ログインセッション、パスワード再設定を実装します。
package usecase

import (
	"errors"

	"social_backend/internal/platform/apperr"
)

var (
	// ErrPendingNotFound はメールアドレスに対応する仮登録がない場合に返されます。
	ErrPendingNotFound = apperr.New(apperr.KindNotFound, "REGISTRATION_NOT_FOUND",
		"registration not found, please register again")

	// ErrInvalidOrExpiredCode はコードの不一致、使用済み、期限切れで返されます。
	// 期限切れと不一致は区別しません。
	ErrInvalidOrExpiredCode = apperr.New(apperr.KindExpired, "INVALID_OR_EXPIRED_CODE",
		"invalid or expired code")

	// ErrAccountExists はメールアドレスまたはユーザー名が本登録済みの場合に返されます。
	ErrAccountExists = apperr.New(apperr.KindConflict, "ACCOUNT_EXISTS",
		"an account with this email or username already exists, please login")

	// ErrAccountNotFound はメールアドレスまたはIDでアカウントが見つからない場合に返されます。
	ErrAccountNotFound = apperr.New(apperr.KindNotFound, "ACCOUNT_NOT_FOUND", "account not found")

	// ErrInvalidCredentials はメールアドレスまたはパスワードによるログイン失敗で返されます。
	// どちらが誤っているかは示しません。
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "INVALID_CREDENTIALS",
		"invalid email or password")

	// ErrAccountInactive は無効化されたアカウントが認証しようとした場合に返されます。
	ErrAccountInactive = apperr.New(apperr.KindUnauthorized, "ACCOUNT_INACTIVE", "account is inactive")

	// ErrInvalidRefreshToken is returned when a refresh token is unknown, revoked or expired.
	ErrInvalidRefreshToken = apperr.New(apperr.KindUnauthorized, "INVALID_REFRESH_TOKEN",
		"invalid refresh token")

	// ErrWeakPassword はパスワードが長さ要件を満たさない場合に返されます。
	ErrWeakPassword = apperr.New(apperr.KindValidation, "WEAK_PASSWORD",
		"password must be at least 8 characters long")

	// ErrInvalidUsername はトリム後のユーザー名が長さ要件を満たさない場合に返されます。
	ErrInvalidUsername = apperr.New(apperr.KindValidation, "INVALID_USERNAME",
		"username must be between 3 and 50 characters")

	// ErrSessionNotFound はセッションリポジトリが返します。クライアントには届きません。
	ErrSessionNotFound = errors.New("session not found")
)
