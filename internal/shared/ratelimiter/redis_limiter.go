package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript はウィンドウのカウンタを増やし（初回でTTLを開始）、
// カウントと残りTTL（ミリ秒）を返します。
var incrScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RedisLimiter は全サーバーインスタンスで共有される固定ウィンドウのLimiterです。
type RedisLimiter struct {
	client   redis.UniversalClient
	prefix   string
	limit    int
	interval time.Duration
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter はRedisLimiterを生成します。キーは prefix 配下に保存します。
func NewRedisLimiter(client redis.UniversalClient, prefix string, limit int, interval time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, interval: interval}
}

// Allow は key の呼び出しを1回数えます。
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	res, err := incrScript.Run(ctx, l.client, []string{l.prefix + ":" + key}, l.interval.Milliseconds()).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit check failed: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("rate limit check failed: unexpected reply %v", res)
	}
	if int(res[0]) > l.limit {
		return false, time.Duration(res[1]) * time.Millisecond, nil
	}
	return true, 0, nil
}
