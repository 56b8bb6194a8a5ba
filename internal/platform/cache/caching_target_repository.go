// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"social_backend/internal/feature/engagement/domain/entity"
	"social_backend/internal/feature/engagement/usecase"
)

// CachingTargetRepository はTargetRepositoryをRedisキャッシュでデコレートします。
// キャッシュするのは対象の検索結果（存在と allow_likes）のみで、件数は常に台帳から読みます。
type CachingTargetRepository struct {
	inner     usecase.TargetRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.TargetRepository = (*CachingTargetRepository)(nil)

// NewCachingTargetRepository decorates a TargetRepository with Redis caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "targets".
func NewCachingTargetRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TargetRepository, namespace string) *CachingTargetRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "targets"
	}
	return &CachingTargetRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Find はまずキャッシュを確認し、なければ内部リポジトリを参照します。
// 新しい投稿がすぐ見えるよう、存在しない対象はキャッシュしません。
func (c *CachingTargetRepository) Find(ctx context.Context, targetType entity.TargetType, targetID uint) (*entity.Target, error) {
	if c.rdb == nil {
		return c.inner.Find(ctx, targetType, targetID)
	}

	key := c.cacheKey(targetType, targetID)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var t entity.Target
		if err := json.Unmarshal(b, &t); err == nil {
			return &t, nil
		}
		// 壊れたエントリは削除
		_ = c.rdb.Del(ctx, key).Err()
	}

	t, err := c.inner.Find(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	// ベストエフォート
	if b, err := json.Marshal(t); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return t, nil
}

func (c *CachingTargetRepository) cacheKey(targetType entity.TargetType, targetID uint) string {
	return fmt.Sprintf("%s:%s:%d", c.namespace, targetType, targetID)
}
