package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"social_backend/internal/feature/auth/domain/entity"
	otpentity "social_backend/internal/feature/otp/domain/entity"
	"social_backend/internal/platform/mail"
)

// RegistrationUsecase は仮登録 -> 確認コード -> アカウント昇格の流れを扱います。
type RegistrationUsecase struct {
	accounts AccountRepository
	pending  PendingRegistrationRepository
	codes    CodeIssuer
	mailer   Mailer
	codeTTL  time.Duration
	now      func() time.Time
}

// NewRegistrationUsecase はRegistrationUsecaseを生成します。codeTTLは確認コードの有効期間です。
func NewRegistrationUsecase(accounts AccountRepository, pending PendingRegistrationRepository,
	codes CodeIssuer, mailer Mailer, codeTTL time.Duration) *RegistrationUsecase {
	return &RegistrationUsecase{
		accounts: accounts,
		pending:  pending,
		codes:    codes,
		mailer:   mailer,
		codeTTL:  codeTTL,
		now:      time.Now,
	}
}

// Register は仮登録を保存（既存なら上書き）し、新しい確認コードを送信します。
func (u *RegistrationUsecase) Register(ctx context.Context, email, username, password string) error {
	email = normalizeEmail(email)
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	if err := validatePassword(password); err != nil {
		return err
	}

	taken, err := u.accounts.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return fmt.Errorf("failed to check existing account: %w", err)
	}
	if taken {
		return ErrAccountExists
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := u.pending.Upsert(ctx, &entity.PendingRegistration{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}); err != nil {
		return fmt.Errorf("failed to save pending registration: %w", err)
	}

	return u.sendCode(ctx, email)
}

// ResendCode は確認コードを再発行します。以前のコードは無効になります。
func (u *RegistrationUsecase) ResendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, err := u.pending.FindByEmail(ctx, email); err != nil {
		return err
	}
	return u.sendCode(ctx, email)
}

// Promote はコードを検証し、仮登録を有効なAccountに昇格させます。
//
// コードは消費せずに照合し、Accountの作成（email/usernameの一意制約）が
// 成功した後に消費します。同じ仮登録への同時昇格はこの一意制約で決着し、
// 敗者は ErrAccountExists を受け取ります。敗者が勝者の完了後に到着して
// 仮登録やコードが既に消えている場合も、Accountが存在すれば ErrAccountExists です。
// 作成に失敗した場合、仮登録は残します。
func (u *RegistrationUsecase) Promote(ctx context.Context, email, code string) (*entity.Account, error) {
	email = normalizeEmail(email)

	pending, err := u.pending.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrPendingNotFound) {
			return nil, u.promotedOr(ctx, email, ErrPendingNotFound)
		}
		return nil, err
	}

	ok, err := u.codes.Check(ctx, email, otpentity.PurposeRegistration, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, u.promotedOr(ctx, email, ErrInvalidOrExpiredCode)
	}

	now := u.now()
	account := &entity.Account{
		Username:    pending.Username,
		Email:       pending.Email,
		Password:    pending.PasswordHash,
		Active:      true,
		ActivatedAt: &now,
	}
	if err := u.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrAccountExists) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// 昇格済みなので、ここからの失敗はログのみ
	if _, err := u.codes.Verify(ctx, email, otpentity.PurposeRegistration, code); err != nil {
		slog.Warn("failed to consume registration code", "account_id", account.ID, "error", err)
	}
	if err := u.pending.Delete(ctx, email); err != nil {
		slog.Warn("failed to delete pending registration", "account_id", account.ID, "error", err)
	}
	return account, nil
}

// promotedOr は email のAccountが既に存在すれば ErrAccountExists を、
// なければ fallback を返します。
func (u *RegistrationUsecase) promotedOr(ctx context.Context, email string, fallback error) error {
	_, err := u.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrAccountExists
	case errors.Is(err, ErrAccountNotFound):
		return fallback
	default:
		return fmt.Errorf("failed to look up account: %w", err)
	}
}

func (u *RegistrationUsecase) sendCode(ctx context.Context, email string) error {
	code, err := u.codes.Issue(ctx, email, otpentity.PurposeRegistration, u.codeTTL)
	if err != nil {
		return fmt.Errorf("failed to issue registration code: %w", err)
	}
	msg := mail.Message{
		To:      email,
		Subject: "Verify your account",
		Body: fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
			code, int(u.codeTTL.Minutes())),
	}
	if err := u.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send registration code: %w", err)
	}
	return nil
}
