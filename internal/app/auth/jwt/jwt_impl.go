package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	customErrors "github.com/taskhub/auth-service/internal/domain/auth/errors"
	domainJwt "github.com/taskhub/auth-service/internal/domain/auth/jwt"
	"github.com/taskhub/auth-service/internal/infra/config"
)

type JwtUtilImpl struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	audience      string
}

func NewJWTUtil(cfg *config.Config) (*JwtUtilImpl, error) {
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, customErrors.WrapInternal(errors.New("empty token secret"), "NewJWTUtil")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, customErrors.WrapInternal(errors.New("access and refresh secrets must differ"), "NewJWTUtil")
	}

	return &JwtUtilImpl{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
	}, nil
}

func (j *JwtUtilImpl) GenerateAccessToken(userID uuid.UUID) (string, time.Time, string, error) {
	return j.generate(userID, j.accessSecret, j.accessTTL, "sign access token")
}

func (j *JwtUtilImpl) GenerateRefreshToken(userID uuid.UUID) (string, time.Time, string, error) {
	return j.generate(userID, j.refreshSecret, j.refreshTTL, "sign refresh token")
}

func (j *JwtUtilImpl) generate(userID uuid.UUID, secret []byte, ttl time.Duration, op string) (string, time.Time, string, error) {
	jti := uuid.NewString()
	now := time.Now()

	claims := jwtlib.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		Issuer:    j.issuer,
		Audience:  jwtlib.ClaimStrings{j.audience},
		ID:        jti,
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, "", customErrors.WrapInternal(err, op)
	}

	return signed, claims.ExpiresAt.Time, jti, nil
}

func (j *JwtUtilImpl) ValidateAccessToken(raw string) (domainJwt.AccessClaims, error) {
	var claims domainJwt.AccessClaims
	if err := j.parse(raw, j.accessSecret, &claims); err != nil {
		return domainJwt.AccessClaims{}, err
	}
	return claims, nil
}

func (j *JwtUtilImpl) ValidateRefreshToken(raw string) (domainJwt.RefreshClaims, error) {
	var claims domainJwt.RefreshClaims
	if err := j.parse(raw, j.refreshSecret, &claims); err != nil {
		return domainJwt.RefreshClaims{}, err
	}
	return claims, nil
}

func (j *JwtUtilImpl) parse(raw string, secret []byte, claims jwtlib.Claims) error {
	token, err := jwtlib.ParseWithClaims(raw, claims, func(t *jwtlib.Token) (interface{}, error) {
		if t.Method.Alg() != jwtlib.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return secret, nil
	},
		jwtlib.WithIssuer(j.issuer),
		jwtlib.WithAudience(j.audience),
	)

	switch {
	case err == nil && token.Valid:
		return nil
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return customErrors.ErrExpiredToken
	default:
		return customErrors.ErrInvalidToken
	}
}
