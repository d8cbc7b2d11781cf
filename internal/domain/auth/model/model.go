package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the persisted account record. Secret-bearing fields hold hashes
// only; the raw password, refresh token and ephemeral tokens are never
// stored. Nullable token fields are present only while the matching flow is
// outstanding.
type User struct {
	ID            uuid.UUID `gorm:"primaryKey"`
	FullName      string
	Username      string `gorm:"uniqueIndex"`
	Email         string `gorm:"uniqueIndex"`
	PasswordHash  string
	EmailVerified bool

	// sha256 of the single currently-valid refresh token. At most one live
	// refresh token per user: writing a new hash invalidates the old token.
	RefreshTokenHash *string

	EmailVerificationTokenHash   *string
	EmailVerificationTokenExpiry *time.Time
	ForgotPasswordTokenHash      *string
	ForgotPasswordTokenExpiry    *time.Time

	AvatarURL string
	AvatarKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sanitized returns a copy with every secret-bearing field stripped, safe to
// hand back to transport.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.RefreshTokenHash = nil
	u.EmailVerificationTokenHash = nil
	u.EmailVerificationTokenExpiry = nil
	u.ForgotPasswordTokenHash = nil
	u.ForgotPasswordTokenExpiry = nil
	u.AvatarKey = ""
	return u
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	UserID       uuid.UUID
}
