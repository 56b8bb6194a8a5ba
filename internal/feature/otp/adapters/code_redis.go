package adapters

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"social_backend/internal/feature/otp/domain/entity"
	"social_backend/internal/feature/otp/usecase"
)

// consumeCodeLua は code_hash フィールドが ARGV[1] と一致する場合のみ KEYS[1] を削除します。
// 削除したら1、それ以外は0を返します。
var consumeCodeLua = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'code_hash') == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

// CodeRedis は各コードを <prefix>:<purpose>:<subject> のハッシュとして保存します。
// TTLはコードの有効期間と同じなので、期限切れの掃除は不要です。
type CodeRedis struct {
	client redis.UniversalClient
	prefix string
}

var _ usecase.CodeRepository = (*CodeRedis)(nil)

// NewCodeRedis はRedisを使うコードリポジトリを生成します。
func NewCodeRedis(client redis.UniversalClient, prefix string) *CodeRedis {
	if prefix == "" {
		prefix = "otp"
	}
	return &CodeRedis{client: client, prefix: prefix}
}

func (r *CodeRedis) key(subject string, purpose entity.Purpose) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, purpose, subject)
}

// Save はMULTIブロック内で既存のコードをアトミックに置き換えます。
func (r *CodeRedis) Save(ctx context.Context, code *entity.VerificationCode) error {
	ttl := code.ExpiresAt.Sub(code.CreatedAt)
	if ttl <= 0 {
		return fmt.Errorf("verification code already expired")
	}
	key := r.key(code.Subject, code.Purpose)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			"code_hash", code.CodeHash,
			"expires_at", strconv.FormatInt(code.ExpiresAt.UnixNano(), 10),
			"created_at", strconv.FormatInt(code.CreatedAt.UnixNano(), 10),
		)
		pipe.PExpire(ctx, key, ttl)
		return nil
	})
	return err
}

func (r *CodeRedis) Find(ctx context.Context, subject string, purpose entity.Purpose) (*entity.VerificationCode, error) {
	fields, err := r.client.HGetAll(ctx, r.key(subject, purpose)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, usecase.ErrCodeNotFound
	}

	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt verification code record: %w", err)
	}
	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)

	return &entity.VerificationCode{
		Subject:   subject,
		Purpose:   purpose,
		CodeHash:  fields["code_hash"],
		ExpiresAt: time.Unix(0, expiresAt),
		CreatedAt: time.Unix(0, createdAt),
	}, nil
}

func (r *CodeRedis) Consume(ctx context.Context, subject string, purpose entity.Purpose, codeHash string) (bool, error) {
	n, err := consumeCodeLua.Run(ctx, r.client, []string{r.key(subject, purpose)}, codeHash).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *CodeRedis) Delete(ctx context.Context, subject string, purpose entity.Purpose) error {
	return r.client.Del(ctx, r.key(subject, purpose)).Err()
}

// DeleteExpired は何もしません。RedisのTTLで失効します。
func (r *CodeRedis) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
