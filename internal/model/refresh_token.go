package model

import "time"

// RefreshToken mirrors the 'refresh_tokens' table.  Only the SHA-256 hash
// of the raw token is ever stored; the raw string exists solely in the
// client's cookie.
type RefreshToken struct {
	ID         uint64
	UserID     uint64
	TokenHash  string
	DeviceInfo string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	RevokedAt  *time.Time
}
