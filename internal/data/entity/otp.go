package entity

import (
	"time"

	"github.com/google/uuid"
)

// OTP is the single live verification code of an account.
type OTP struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	Code      string    `db:"code"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Expired reports whether the code is past its expiry at now. The expiry
// instant itself counts as expired.
func (o *OTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
