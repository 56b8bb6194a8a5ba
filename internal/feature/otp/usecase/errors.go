// Package usecase はワンタイムコードの発行と検証を実装します。
package usecase

import (
	"errors"

	"social_backend/internal/platform/apperr"
)

var (
	// ErrCodeNotFound は (subject, purpose) のコードが存在しない場合にリポジトリが返します。
	// クライアントには返しません。
	ErrCodeNotFound = errors.New("verification code not found")

	// ErrInvalidCodeFormat は送信されたコードの文字種または長さが不正な場合に返されます。
	ErrInvalidCodeFormat = apperr.New(apperr.KindValidation, "INVALID_CODE_FORMAT",
		"code must be 6 characters of A-Z and 0-9")
)
