package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"social_backend/internal/feature/otp/domain/entity"
)

// CodeRepository は確認コードの永続化を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type CodeRepository interface {
	// Save は同じ (subject, purpose) の既存コードを置き換えて保存します。
	Save(ctx context.Context, code *entity.VerificationCode) error

	// Find は (subject, purpose) のコードを返します。なければ ErrCodeNotFound。
	Find(ctx context.Context, subject string, purpose entity.Purpose) (*entity.VerificationCode, error)

	// Consume はハッシュが codeHash と一致する場合のみ削除し、削除したかを返します。
	Consume(ctx context.Context, subject string, purpose entity.Purpose, codeHash string) (bool, error)

	// Delete は (subject, purpose) のコードを削除します。存在しなくてもエラーにしません。
	Delete(ctx context.Context, subject string, purpose entity.Purpose) error

	// DeleteExpired は now より前に期限切れとなったコードを削除します。
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Issuer はワンタイムコードの発行と検証を行います。
//
// (subject, purpose) ごとに NoCode -> Issued -> Verified|Expired と遷移します。
// 再発行は以前のコードを置き換え、検証済み・期限切れのコードは削除されます。
type Issuer struct {
	repo   CodeRepository
	now    func() time.Time
	random io.Reader
}

// Option はIssuerの設定を変更します。
type Option func(*Issuer)

// WithClock は時計を差し替えます（テスト用）。
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

// WithRandom はコード生成に使う乱数源を差し替えます。
func WithRandom(r io.Reader) Option {
	return func(i *Issuer) {
		if r != nil {
			i.random = r
		}
	}
}

// NewIssuer は repo を使うIssuerを生成します。
func NewIssuer(repo CodeRepository, opts ...Option) *Issuer {
	i := &Issuer{repo: repo, now: time.Now, random: rand.Reader}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue は (subject, purpose) の新しいコードを発行し、以前のコードを無効化します。
// 戻り値は帯域外で送る平文のコードです。
func (i *Issuer) Issue(ctx context.Context, subject string, purpose entity.Purpose, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("invalid code ttl %s", ttl)
	}
	code, err := generateCode(i.random)
	if err != nil {
		return "", err
	}

	now := i.now()
	rec := &entity.VerificationCode{
		Subject:   subject,
		Purpose:   purpose,
		CodeHash:  HashCode(code),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := i.repo.Save(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to save verification code: %w", err)
	}
	return code, nil
}

// Check はコードを消費せずに照合します。期限切れのコードは削除します。
// 形式が不正な場合は ErrInvalidCodeFormat を返します。
func (i *Issuer) Check(ctx context.Context, subject string, purpose entity.Purpose, submitted string) (bool, error) {
	_, ok, err := i.match(ctx, subject, purpose, submitted)
	return ok, err
}

// Verify はフェイルクローズで照合します。コードがない、期限切れ（レコードは削除）、
// または値が異なる場合は false です。一致したコードは削除され、1回しか成功しません。
// 形式が不正な場合は ErrInvalidCodeFormat を返します。
func (i *Issuer) Verify(ctx context.Context, subject string, purpose entity.Purpose, submitted string) (bool, error) {
	hash, ok, err := i.match(ctx, subject, purpose, submitted)
	if err != nil || !ok {
		return false, err
	}

	// 同時に検証した別のリクエストが先に消費している可能性がある
	consumed, err := i.repo.Consume(ctx, subject, purpose, hash)
	if err != nil {
		return false, fmt.Errorf("failed to consume verification code: %w", err)
	}
	return consumed, nil
}

// match は有効なコードを読み込み、定数時間で比較します。
func (i *Issuer) match(ctx context.Context, subject string, purpose entity.Purpose, submitted string) (string, bool, error) {
	code, err := NormalizeCode(submitted)
	if err != nil {
		return "", false, err
	}

	rec, err := i.repo.Find(ctx, subject, purpose)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load verification code: %w", err)
	}

	if rec.IsExpired(i.now()) {
		if err := i.repo.Delete(ctx, subject, purpose); err != nil {
			return "", false, fmt.Errorf("failed to delete expired code: %w", err)
		}
		return "", false, nil
	}

	hash := HashCode(code)
	if !hashesEqual(rec.CodeHash, hash) {
		return "", false, nil
	}
	return hash, true, nil
}

// Sweep は期限切れのコードをすべて削除します。
// 期限切れは Verify が読み取り時に拒否するため、これは掃除のためだけの処理です。
func (i *Issuer) Sweep(ctx context.Context) (int64, error) {
	return i.repo.DeleteExpired(ctx, i.now())
}
