package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInternal           = errors.New("internal error")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")

	// ErrTokenInvalidOrExpired deliberately merges the "no such hash" and
	// "expired" outcomes of redeeming a verification/reset token, so the
	// response does not reveal which predicate failed.
	ErrTokenInvalidOrExpired = errors.New("token invalid or expired")

	// ErrTokenMismatch means a signature-valid refresh token that is not the
	// most recently issued one for the account (superseded or logged out).
	ErrTokenMismatch = errors.New("refresh token mismatch")

	ErrWrongOldPassword = errors.New("wrong old password")
	ErrSamePassword     = errors.New("new password must differ from current")
	ErrAlreadyVerified  = errors.New("email already verified")
	ErrUnauthorized     = errors.New("unauthorized")
)

func NewInvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

func WrapInternal(err error, context string) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, context, err)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsExpiredToken(err error) bool {
	return errors.Is(err, ErrExpiredToken)
}

func IsTokenInvalidOrExpired(err error) bool {
	return errors.Is(err, ErrTokenInvalidOrExpired)
}

func IsTokenMismatch(err error) bool {
	return errors.Is(err, ErrTokenMismatch)
}

func IsWrongOldPassword(err error) bool {
	return errors.Is(err, ErrWrongOldPassword)
}

func IsSamePassword(err error) bool {
	return errors.Is(err, ErrSamePassword)
}

func IsAlreadyVerified(err error) bool {
	return errors.Is(err, ErrAlreadyVerified)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
