package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AccessClaims struct {
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

// JWTUtil issues and validates the two self-contained token kinds. Both are
// signed with distinct secrets; validation distinguishes an expired token
// (errors.ErrExpiredToken) from a tampered or garbage one
// (errors.ErrInvalidToken). There is no server-side denylist: an access
// token stays valid until natural expiry, revocation happens only through
// the refresh-token equality check in the service layer.
type JWTUtil interface {
	GenerateAccessToken(userID uuid.UUID) (token string, exp time.Time, jti string, err error)
	GenerateRefreshToken(userID uuid.UUID) (token string, exp time.Time, jti string, err error)
	ValidateAccessToken(token string) (AccessClaims, error)
	ValidateRefreshToken(token string) (RefreshClaims, error)
}
