// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// RegisterReq は/auth/registerエンドポイントのリクエストボディを表します。
type RegisterReq struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8"`
}

// VerifyRegistrationReq is the body of /auth/verify-registration-otp.
type VerifyRegistrationReq struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// EmailReq はメールアドレスのみのリクエストボディです（再送、パスワード忘れ）。
type EmailReq struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordReq is the body of /auth/reset-password.
type ResetPasswordReq struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}
