// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"social_backend/internal/feature/auth/domain/entity"
	"social_backend/internal/feature/auth/transport/http/dto"
	"social_backend/internal/feature/auth/usecase"
	"social_backend/internal/platform/http/response"
	"social_backend/internal/platform/mail"
)

// RegistrationUsecase は登録フローのユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type RegistrationUsecase interface {
	Register(ctx context.Context, email, username, password string) error
	ResendCode(ctx context.Context, email string) error
	Promote(ctx context.Context, email, code string) (*entity.Account, error)
}

// AuthUsecase は認証操作のユースケースを定義します。
type AuthUsecase interface {
	Login(ctx context.Context, email, password string, meta usecase.SessionMeta) (*usecase.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string, meta usecase.SessionMeta) (*usecase.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

// PasswordUsecase はパスワードリセットのユースケースを定義します。
type PasswordUsecase interface {
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	registration RegistrationUsecase
	auth         AuthUsecase
	password     PasswordUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(registration RegistrationUsecase, auth AuthUsecase, password PasswordUsecase) *AuthHandler {
	return &AuthHandler{registration: registration, auth: auth, password: password}
}

// Register は仮登録を作成し、確認コードを送信します。
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "register validation failed", err)
		return
	}
	if err := h.registration.Register(c.Request.Context(), req.Email, req.Username, req.Password); err != nil {
		response.Error(c, "register failed", err, "email", mail.MaskAddress(req.Email))
		return
	}
	slog.Info("pending registration created", "email", mail.MaskAddress(req.Email), "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.MessageRes{Message: "verification code sent"})
}

// VerifyRegistration は確認コードを検証し、本登録アカウントを作成します。
// - 仮登録なし: 404
// - コード不一致・期限切れ: 400
// - メール・ユーザー名の競合: 409
func (h *AuthHandler) VerifyRegistration(c *gin.Context) {
	var req dto.VerifyRegistrationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "verify registration validation failed", err)
		return
	}
	account, err := h.registration.Promote(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		response.Error(c, "verify registration failed", err, "email", mail.MaskAddress(req.Email))
		return
	}
	slog.Info("account activated", "account_id", account.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, toAccountRes(account))
}

// ResendRegistrationCode は確認コードを再発行します。以前のコードは無効になります。
func (h *AuthHandler) ResendRegistrationCode(c *gin.Context) {
	var req dto.EmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "resend validation failed", err)
		return
	}
	if err := h.registration.ResendCode(c.Request.Context(), req.Email); err != nil {
		response.Error(c, "resend failed", err, "email", mail.MaskAddress(req.Email))
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "verification code sent"})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証失敗時は、どのフィールドが誤っているかを公開せず401を返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "login validation failed", err)
		return
	}
	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, sessionMeta(c))
	if err != nil {
		response.Error(c, "login failed", err, "email", mail.MaskAddress(req.Email))
		return
	}
	slog.Info("user login successful", "account_id", pair.Account.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, toTokenRes(pair))
}

// Refresh はリフレッシュトークンをローテーションします。
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "refresh validation failed", err)
		return
	}
	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, sessionMeta(c))
	if err != nil {
		response.Error(c, "refresh failed", err)
		return
	}
	c.JSON(http.StatusOK, toTokenRes(pair))
}

// Logout はセッションを失効させます。未知のトークンでも200を返します。
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "logout validation failed", err)
		return
	}
	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		response.Error(c, "logout failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "logged out"})
}

// ForgotPassword はリセットコードを送信します。
// アカウント列挙を防ぐため、未登録のメールアドレスでも同じ応答を返します。
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.EmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "forgot password validation failed", err)
		return
	}
	if err := h.password.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, "forgot password failed", err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "if the account exists, a reset code has been sent"})
}

// ResetPassword はリセットコードを検証してパスワードを更新します。
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "reset password validation failed", err)
		return
	}
	if err := h.password.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		response.Error(c, "reset password failed", err)
		return
	}
	slog.Info("password reset", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.MessageRes{Message: "password updated"})
}

func sessionMeta(c *gin.Context) usecase.SessionMeta {
	return usecase.SessionMeta{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
}

func toAccountRes(a *entity.Account) dto.AccountRes {
	return dto.AccountRes{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		Active:      a.Active,
		ActivatedAt: a.ActivatedAt,
	}
}

func toTokenRes(p *usecase.TokenPair) dto.TokenRes {
	return dto.TokenRes{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(p.ExpiresIn.Seconds()),
		Account:      toAccountRes(p.Account),
	}
}
