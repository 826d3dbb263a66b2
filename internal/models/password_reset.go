package models

import "time"

// PasswordReset is a single-use reset token issued to a user. Only the
// SHA-256 digest of the token is stored.
type PasswordReset struct {
	Base
	UserID    string     `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// Usable reports whether the token can still be redeemed at the given instant.
func (p *PasswordReset) Usable(now time.Time) bool {
	return p.UsedAt == nil && now.Before(p.ExpiresAt)
}
