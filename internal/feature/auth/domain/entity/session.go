package entity

import "time"

// Session はログイン時に発行されるリフレッシュトークンのセッションです。
type Session struct {
	ID        string     // refresh token value (64-character hex string)
	AccountID uint       // owning account
	UserAgent string     // client's User-Agent header
	IPAddress string     // client's IP address
	CreatedAt time.Time  // issue time
	ExpiresAt time.Time  // expiry time
	RevokedAt *time.Time // nil while active
}

// IsExpired reports whether now is past the session expiry.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsRevoked reports whether the session has been revoked.
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsValid は期限切れでも失効済みでもないかを返します。
func (s *Session) IsValid(now time.Time) bool {
	return !s.IsExpired(now) && !s.IsRevoked()
}
