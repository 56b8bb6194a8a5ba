package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"social_backend/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

// refreshTokenBytes はリフレッシュトークンのバイト長です（hexで64文字）。
const refreshTokenBytes = 32

// SessionMeta はセッションに記録するクライアント情報です。
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

// TokenPair は Login と Refresh が返すトークンの組です。
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	Account      *entity.Account
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	accounts     AccountRepository
	sessions     SessionRepository
	jwtGenerator JWTGenerator
	refreshTTL   time.Duration
	now          func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(accounts AccountRepository, sessions SessionRepository,
	jwtGenerator JWTGenerator, refreshTTL time.Duration) *authUsecase {
	return &authUsecase{
		accounts:     accounts,
		sessions:     sessions,
		jwtGenerator: jwtGenerator,
		refreshTTL:   refreshTTL,
		now:          time.Now,
	}
}

// Login はアカウントを認証し、アクセストークンとリフレッシュトークンを返します。
// タイミング攻撃を防止するため、アカウントが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string, meta SessionMeta) (*TokenPair, error) {
	account, err := u.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = account.Password
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}
	if !account.Active {
		return nil, ErrAccountInactive
	}

	return u.issue(ctx, account, meta)
}

// Refresh はリフレッシュトークンをローテーションします。
// 古いセッションを失効させ、新しいトークンを発行します。
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string, meta SessionMeta) (*TokenPair, error) {
	session, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if !session.IsValid(u.now()) {
		return nil, ErrInvalidRefreshToken
	}

	account, err := u.accounts.FindByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if !account.Active {
		return nil, ErrAccountInactive
	}

	if err := u.sessions.Revoke(ctx, session.ID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to revoke session: %w", err)
	}
	return u.issue(ctx, account, meta)
}

// Logout はセッションを失効させます。未知のトークンは無視します。
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	if err := u.sessions.Revoke(ctx, refreshToken); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// SweepSessions は期限切れセッションを削除します。
func (u *authUsecase) SweepSessions(ctx context.Context) (int64, error) {
	return u.sessions.DeleteExpired(ctx)
}

func (u *authUsecase) issue(ctx context.Context, account *entity.Account, meta SessionMeta) (*TokenPair, error) {
	access, err := u.jwtGenerator.GenerateToken(account.ID, account.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}
	now := u.now()
	session := &entity.Session{
		ID:        token,
		AccountID: account.ID,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.refreshTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: token,
		ExpiresIn:    u.jwtGenerator.Expiration(),
		Account:      account,
	}, nil
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
