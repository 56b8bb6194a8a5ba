// Package ratelimiter は、クライアントごとのリクエスト頻度を固定ウィンドウで制限します。
package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// Limiter は、キーごとの呼び出し頻度を制限するインターフェースです。
type Limiter interface {
	// Allow はキーの呼び出しを1回数え、許可されるかを返します。
	// 拒否された場合、retryAfter はウィンドウがリセットされるまでの時間です。
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

type window struct {
	count int
	reset time.Time
}

// RateLimiter はプロセス内で動作する固定ウィンドウのLimiterです。
// Redisが使えない場合に使用します。
type RateLimiter struct {
	limit    int           // ウィンドウあたりの上限
	interval time.Duration // どの単位でリセットするか
	now      func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		now:      time.Now,
		windows:  make(map[string]*window),
	}
}

// Allow はキーのカウントを進め、上限を超えていれば拒否します。
func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	// interval を過ぎたらカウントリセット
	if !ok || !now.Before(w.reset) {
		rl.prune(now)
		w = &window{reset: now.Add(rl.interval)}
		rl.windows[key] = w
	}

	w.count++
	if w.count > rl.limit {
		return false, w.reset.Sub(now), nil
	}
	return true, 0, nil
}

// prune drops windows that have already reset. Caller holds mu.
func (rl *RateLimiter) prune(now time.Time) {
	for k, w := range rl.windows {
		if !now.Before(w.reset) {
			delete(rl.windows, k)
		}
	}
}
