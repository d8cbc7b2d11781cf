package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskhub/auth-service/internal/domain/auth/model"
)

// UserRepo is the persistence contract for account records. Token-mutating
// flows go through UpdateFields so each change lands as one partial UPDATE
// on a single row; callers rely on that per-row atomicity to keep the
// single-live-refresh-token invariant under concurrent login/refresh.
type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (uuid.UUID, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	// GetUserByUsernameOrEmail backs the registration pre-check.
	GetUserByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error)

	// GetUserByVerificationHash matches an outstanding email-verification
	// token hash whose expiry is after now.
	GetUserByVerificationHash(ctx context.Context, hash string, now time.Time) (model.User, error)

	// GetUserByResetHash is the same lookup for password-reset tokens.
	GetUserByResetHash(ctx context.Context, hash string, now time.Time) (model.User, error)

	// UpdateFields applies the given column set to one user without
	// re-validating or touching unrelated fields.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
}
