package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"social_backend/internal/feature/auth/domain/entity"
	"social_backend/internal/feature/auth/usecase"
)

// revokedSessionTTL は失効済みセッションを監査用に保持する期間です。
const revokedSessionTTL = 24 * time.Hour

// SessionRedis はRedisを使った usecase.SessionRepository の実装です。
// セッションはTTL付きのJSON文字列で、アカウントごとのセットでIDを索引します。
type SessionRedis struct {
	client redis.UniversalClient
	prefix string
}

var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis はSessionRedisを生成します。
func NewSessionRedis(client redis.UniversalClient, prefix string) *SessionRedis {
	if prefix == "" {
		prefix = "session"
	}
	return &SessionRedis{client: client, prefix: prefix}
}

func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

func (r *SessionRedis) accountSessionsKey(accountID uint) string {
	return fmt.Sprintf("%s:account:%d", r.prefix, accountID)
}

// Create persists a new session to Redis.
func (r *SessionRedis) Create(ctx context.Context, session *entity.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	setKey := r.accountSessionsKey(session.AccountID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(session.ID), data, ttl)
		pipe.SAdd(ctx, setKey, session.ID)
		// 索引は最新セッションと同じだけ残す
		pipe.Expire(ctx, setKey, ttl)
		return nil
	})
	return err
}

// FindByID retrieves a session by its ID.
func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Revoke marks a session as revoked.
func (r *SessionRedis) Revoke(ctx context.Context, id string) error {
	session, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if session.IsRevoked() {
		return nil
	}

	now := time.Now()
	session.RevokedAt = &now
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := revokedSessionTTL
	if remaining := time.Until(session.ExpiresAt); remaining > 0 && remaining < ttl {
		ttl = remaining
	}
	return r.client.Set(ctx, r.sessionKey(id), data, ttl).Err()
}

// RevokeAllByAccountID revokes all sessions for an account.
func (r *SessionRedis) RevokeAllByAccountID(ctx context.Context, accountID uint) error {
	setKey := r.accountSessionsKey(accountID)
	ids, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := r.Revoke(ctx, id); err != nil {
			if errors.Is(err, usecase.ErrSessionNotFound) {
				// TTLで消えたセッションは索引からも外す
				r.client.SRem(ctx, setKey, id)
				continue
			}
			return err
		}
	}
	return nil
}

// DeleteExpired は何もしません。RedisはTTLでセッションを削除します。
func (r *SessionRedis) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}
