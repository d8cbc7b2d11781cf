package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhub/auth-service/internal/adapters/transport/http/dto"
	"github.com/taskhub/auth-service/internal/domain/auth/model"
)

// Mailer is the outbound-notification collaborator. Sends are fire-and-log:
// a delivery failure never rolls back the token persisted right before it —
// the service guarantees a redeemable token exists, not that the email
// arrived.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, name, email, link string) error
	SendPasswordResetEmail(ctx context.Context, name, email, link string) error
}

// AvatarStore persists registration media and returns an opaque reference.
type AvatarStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (url, key string, err error)
}

type Service interface {
	Register(ctx context.Context, in dto.RegisterDTO, avatar dto.AvatarUpload) (model.User, error)
	Login(ctx context.Context, in dto.LoginDTO) (model.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Refresh(ctx context.Context, in dto.RefreshDTO) (model.TokenPair, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (model.User, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, userID uuid.UUID) error
	RequestPasswordReset(ctx context.Context, in dto.ForgotPasswordDTO) error
	ResetPassword(ctx context.Context, token string, in dto.ResetPasswordDTO) error
	ChangePassword(ctx context.Context, userID uuid.UUID, in dto.ChangePasswordDTO) error
}
