package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	otpentity "social_backend/internal/feature/otp/domain/entity"
	"social_backend/internal/platform/mail"
)

// PasswordUsecase はパスワード再設定フローを扱います。
// リセットコードはアカウントIDをキーにするため、メール変更後も有効です。
type PasswordUsecase struct {
	accounts AccountRepository
	sessions SessionRepository
	codes    CodeIssuer
	mailer   Mailer
	codeTTL  time.Duration
}

// NewPasswordUsecase はPasswordUsecaseを生成します。
func NewPasswordUsecase(accounts AccountRepository, sessions SessionRepository,
	codes CodeIssuer, mailer Mailer, codeTTL time.Duration) *PasswordUsecase {
	return &PasswordUsecase{
		accounts: accounts,
		sessions: sessions,
		codes:    codes,
		mailer:   mailer,
		codeTTL:  codeTTL,
	}
}

// ForgotPassword はアカウントが存在すればリセットコードを送信します。
// 未登録のメールアドレスでも成功を返します。
func (u *PasswordUsecase) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	account, err := u.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to find account: %w", err)
	}
	if !account.Active {
		return nil
	}

	code, err := u.codes.Issue(ctx, resetSubject(account.ID), otpentity.PurposePasswordReset, u.codeTTL)
	if err != nil {
		return fmt.Errorf("failed to issue reset code: %w", err)
	}
	msg := mail.Message{
		To:      account.Email,
		Subject: "Reset your password",
		Body: fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.",
			code, int(u.codeTTL.Minutes())),
	}
	if err := u.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send reset code: %w", err)
	}
	return nil
}

// ResetPassword はコードを検証してパスワードを置き換え、
// アカウントの全セッションを失効させます。
func (u *PasswordUsecase) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	account, err := u.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrInvalidOrExpiredCode
		}
		return fmt.Errorf("failed to find account: %w", err)
	}

	ok, err := u.codes.Verify(ctx, resetSubject(account.ID), otpentity.PurposePasswordReset, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOrExpiredCode
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := u.accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := u.sessions.RevokeAllByAccountID(ctx, account.ID); err != nil {
		slog.Warn("failed to revoke sessions after password reset", "account_id", account.ID, "error", err)
	}
	return nil
}

func resetSubject(accountID uint) string {
	return strconv.FormatUint(uint64(accountID), 10)
}
