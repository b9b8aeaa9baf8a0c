package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session backs an issued access token. Token is the value of the "sid"
// claim; revoking the row invalidates the token.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     uuid.UUID  `db:"token"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

type OTPPurpose string

const (
	OTPEmailVerification OTPPurpose = "email_verification"
	OTPPasswordReset     OTPPurpose = "password_reset"
)

func (p OTPPurpose) Valid() bool {
	return p == OTPEmailVerification || p == OTPPasswordReset
}

type OTP struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Email     string     `db:"email"`
	Code      string     `db:"otp_code"`
	Purpose   OTPPurpose `db:"otp_type"`
	ExpiresAt time.Time  `db:"expires_at"`
	IsUsed    bool       `db:"is_used"`
}
