// Package apperr は全フィーチャー共通のエラー分類と、
// 安定したHTTPレスポンスへの変換を定義します。
package apperr

import (
	"errors"
	"net/http"
)

// Kind はアプリケーションエラーの分類です。
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthorized
	KindExpired
	KindRateLimited
)

// Error は機械可読な安定コードを持つアプリケーションエラーです。
// センチネルはフィーチャーごとに宣言し、errors.Is で比較します。
type Error struct {
	Kind    Kind
	Code    string
	Message string
	status  int
}

// New は kind からHTTPステータスを決めた Error を生成します。
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// WithStatus はHTTPステータスを上書きします。
// kind の既定と異なる契約のエンドポイント用です。
func (e *Error) WithStatus(status int) *Error {
	e.status = status
	return e
}

func (e *Error) Error() string { return e.Message }

// Status returns the HTTP status for this error.
func (e *Error) Status() int {
	if e.status != 0 {
		return e.status
	}
	switch e.Kind {
	case KindValidation, KindExpired:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse は失敗したリクエストのJSONボディです。
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// ErrInternal is what callers see for anything that is not an *Error.
var ErrInternal = New(KindInternal, "INTERNAL", "internal error")

// Invalid wraps a binding/validation failure.
func Invalid(message string) *Error {
	return New(KindValidation, "VALIDATION_FAILED", message)
}

// Resolve は err が持つ *Error を返します。なければ ErrInternal を返し、
// ストレージの生エラーをクライアントに漏らしません。
func Resolve(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return ErrInternal
}

// Response は err をステータスコードとボディに変換します。
func Response(err error) (int, ErrorResponse) {
	ae := Resolve(err)
	return ae.Status(), ErrorResponse{Code: ae.Code, Error: ae.Message}
}
