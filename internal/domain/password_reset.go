package domain

import "time"

// PasswordReset is one issued reset code. Rows are keyed by the normalized
// email so a code can be issued without revealing whether an account exists.
// Everything except the Used flag is immutable; Used flips false -> true at
// most once.
type PasswordReset struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	OTPHash   []byte    `db:"otp_hash" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Used      bool      `db:"used" json:"used"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (p *PasswordReset) Expired(now time.Time) bool {
	return p.ExpiresAt.Before(now)
}
