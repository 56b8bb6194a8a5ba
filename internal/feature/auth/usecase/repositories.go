package usecase

import (
	"context"
	"time"

	"social_backend/internal/feature/auth/domain/entity"
	otpentity "social_backend/internal/feature/otp/domain/entity"
	"social_backend/internal/platform/mail"
)

// AccountRepository はアカウントの永続化を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type AccountRepository interface {
	// Create はアカウントを保存します。メールアドレスまたはユーザー名が使用済みなら
	// ErrAccountExists を返します。競合はユニークインデックスで決着します。
	Create(ctx context.Context, account *entity.Account) error

	// FindByEmail returns ErrAccountNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByID returns ErrAccountNotFound when no account matches.
	FindByID(ctx context.Context, id uint) (*entity.Account, error)

	// ExistsByEmailOrUsername はどちらかが使用済みかを返します。
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)

	// UpdatePassword はパスワードハッシュを置き換えます。
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}

// PendingRegistrationRepository は仮登録の永続化を抽象化します。
type PendingRegistrationRepository interface {
	// Upsert は仮登録を作成、または同じメールアドレスのものを上書きします。
	Upsert(ctx context.Context, pending *entity.PendingRegistration) error

	// FindByEmail returns ErrPendingNotFound when none exists.
	FindByEmail(ctx context.Context, email string) (*entity.PendingRegistration, error)

	// Delete は email の仮登録を削除します。
	Delete(ctx context.Context, email string) error
}

// SessionRepository はリフレッシュセッションの永続化を抽象化します。
type SessionRepository interface {
	// Create はセッションを保存します。
	Create(ctx context.Context, session *entity.Session) error

	// FindByID returns ErrSessionNotFound when the token is unknown.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Revoke はセッションを失効させます。未知なら ErrSessionNotFound。
	Revoke(ctx context.Context, id string) error

	// RevokeAllByAccountID はアカウントの全セッションを失効させます。
	RevokeAllByAccountID(ctx context.Context, accountID uint) error

	// DeleteExpired は期限切れセッションを削除し、件数を返します。
	DeleteExpired(ctx context.Context) (int64, error)
}

// CodeIssuer はワンタイムコードを発行・検証します。
type CodeIssuer interface {
	Issue(ctx context.Context, subject string, purpose otpentity.Purpose, ttl time.Duration) (string, error)
	// Check はコードを消費せずに照合します。
	Check(ctx context.Context, subject string, purpose otpentity.Purpose, code string) (bool, error)
	// Verify は照合に成功したコードを削除します（1回限り）。
	Verify(ctx context.Context, subject string, purpose otpentity.Purpose, code string) (bool, error)
}

// Mailer はコードをメールで届けます。
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
type JWTGenerator interface {
	GenerateToken(userID uint, username string) (string, error)
	Expiration() time.Duration
}
