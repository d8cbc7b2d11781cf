package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhub/auth-service/internal/adapters/transport/http/dto"
	customErrors "github.com/taskhub/auth-service/internal/domain/auth/errors"
	"github.com/taskhub/auth-service/internal/domain/auth/jwt"
	"github.com/taskhub/auth-service/internal/domain/auth/model"
	"github.com/taskhub/auth-service/internal/domain/auth/repo"
	"github.com/taskhub/auth-service/internal/domain/auth/secret"
	"github.com/taskhub/auth-service/internal/infra/config"
)

type authService struct {
	userRepo repo.UserRepo
	hasher   secret.Hasher
	tokens   secret.Generator
	jwtUtil  jwt.JWTUtil
	mailer   Mailer
	avatars  AvatarStore
	cfg      *config.Config
	v        *validator.Validate
	log      *zap.Logger
}

func New(
	ur repo.UserRepo,
	h secret.Hasher,
	g secret.Generator,
	jm jwt.JWTUtil,
	m Mailer,
	av AvatarStore,
	cfg *config.Config,
	v *validator.Validate,
	log *zap.Logger,
) Service {
	return &authService{
		userRepo: ur, hasher: h, tokens: g, jwtUtil: jm,
		mailer: m, avatars: av, cfg: cfg, v: v, log: log,
	}
}

func (a *authService) Register(ctx context.Context, in dto.RegisterDTO, avatar dto.AvatarUpload) (model.User, error) {
	if err := a.v.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}
	if len(avatar.Data) == 0 {
		return model.User{}, customErrors.NewInvalidArgument("avatar is required")
	}

	// Pre-check is an optimization; the unique constraints in the storage
	// layer remain the source of truth for the inherent race.
	_, err := a.userRepo.GetUserByUsernameOrEmail(ctx, in.Username, in.Email)
	switch {
	case err == nil:
		return model.User{}, customErrors.ErrAlreadyExists
	case !customErrors.IsNotFound(err):
		return model.User{}, customErrors.WrapInternal(err, "Register")
	}

	avatarURL, avatarKey, err := a.avatars.Upload(ctx, avatar.Data, avatar.ContentType)
	if err != nil {
		return model.User{}, customErrors.WrapInternal(err, "UploadAvatar")
	}

	passwordHash, err := a.hasher.HashPassword(in.Password)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:            uuid.New(),
		FullName:      in.FullName,
		Username:      in.Username,
		Email:         in.Email,
		PasswordHash:  passwordHash,
		EmailVerified: false,
		AvatarURL:     avatarURL,
		AvatarKey:     avatarKey,
	}
	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if customErrors.IsAlreadyExists(err) {
			return model.User{}, customErrors.ErrAlreadyExists
		}
		return model.User{}, customErrors.WrapInternal(err, "CreateUser")
	}

	if err := a.issueVerification(ctx, user); err != nil {
		return model.User{}, err
	}

	return user.Sanitized(), nil
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case customErrors.IsNotFound(err):
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	ok, err := a.hasher.ComparePassword(in.Password, user.PasswordHash)
	if err != nil {
		return model.TokenPair{}, err
	}
	if !ok {
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, user.ID)
}

func (a *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	if _, err := a.userRepo.GetUserByID(ctx, userID); err != nil {
		if customErrors.IsNotFound(err) {
			return customErrors.ErrNotFound
		}
		return customErrors.WrapInternal(err, "Logout")
	}

	// Idempotent by effect: clearing an already-nil hash leaves the same
	// end state.
	err := a.userRepo.UpdateFields(ctx, userID, map[string]any{
		"refresh_token_hash": nil,
	})
	if err != nil {
		return customErrors.WrapInternal(err, "Logout")
	}
	return nil
}

func (a *authService) Refresh(ctx context.Context, in dto.RefreshDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.jwtUtil.ValidateRefreshToken(in.RefreshToken)
	if err != nil {
		// expired vs tampered stays distinguishable to the caller
		return model.TokenPair{}, err
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	user, err := a.userRepo.GetUserByID(ctx, uid)
	switch {
	case customErrors.IsNotFound(err):
		return model.TokenPair{}, customErrors.ErrInvalidToken
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Refresh")
	}

	// Server-side revocation: a signature-valid token that is not the most
	// recently issued one (superseded login, refresh or logout) is rejected.
	incomingHash := a.hasher.HashOpaqueToken(in.RefreshToken)
	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != incomingHash {
		return model.TokenPair{}, customErrors.ErrTokenMismatch
	}

	return a.issueTokens(ctx, user.ID)
}

func (a *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.userRepo.GetUserByID(ctx, userID)
	switch {
	case customErrors.IsNotFound(err):
		return model.User{}, customErrors.ErrNotFound
	case err != nil:
		return model.User{}, customErrors.WrapInternal(err, "CurrentUser")
	}
	return user.Sanitized(), nil
}

func (a *authService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return customErrors.NewInvalidArgument("verification token is required")
	}

	user, err := a.userRepo.GetUserByVerificationHash(ctx, a.hasher.HashOpaqueToken(token), time.Now())
	switch {
	case customErrors.IsNotFound(err):
		// unknown hash and expired hash fail identically
		return customErrors.ErrTokenInvalidOrExpired
	case err != nil:
		return customErrors.WrapInternal(err, "VerifyEmail")
	}

	// One shot: clearing the hash makes a second redemption miss the lookup.
	err = a.userRepo.UpdateFields(ctx, user.ID, map[string]any{
		"email_verified":                  true,
		"email_verification_token_hash":   nil,
		"email_verification_token_expiry": nil,
	})
	if err != nil {
		return customErrors.WrapInternal(err, "VerifyEmail")
	}
	return nil
}

func (a *authService) ResendVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := a.userRepo.GetUserByID(ctx, userID)
	switch {
	case customErrors.IsNotFound(err):
		return customErrors.ErrNotFound
	case err != nil:
		return customErrors.WrapInternal(err, "ResendVerification")
	}

	if user.EmailVerified {
		return customErrors.ErrAlreadyVerified
	}

	// Only one hash/expiry pair is stored, so a fresh token supersedes any
	// outstanding one.
	return a.issueVerification(ctx, user)
}

func (a *authService) RequestPasswordReset(ctx context.Context, in dto.ForgotPasswordDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case customErrors.IsNotFound(err):
		return customErrors.ErrNotFound
	case err != nil:
		return customErrors.WrapInternal(err, "RequestPasswordReset")
	}

	tok, err := a.tokens.NewEphemeralToken(a.cfg.EphemeralTokenTTL)
	if err != nil {
		return err
	}

	err = a.userRepo.UpdateFields(ctx, user.ID, map[string]any{
		"forgot_password_token_hash":   tok.Hash,
		"forgot_password_token_expiry": tok.ExpiresAt,
	})
	if err != nil {
		return customErrors.WrapInternal(err, "RequestPasswordReset")
	}

	link := fmt.Sprintf("%s/api/v1/auth/reset-password/%s", a.cfg.PublicBaseURL, tok.Plaintext)
	if err := a.mailer.SendPasswordResetEmail(ctx, user.FullName, user.Email, link); err != nil {
		a.log.Warn("password reset email not sent", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	return nil
}

func (a *authService) ResetPassword(ctx context.Context, token string, in dto.ResetPasswordDTO) error {
	if token == "" {
		return customErrors.NewInvalidArgument("reset token is required")
	}
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByResetHash(ctx, a.hasher.HashOpaqueToken(token), time.Now())
	switch {
	case customErrors.IsNotFound(err):
		return customErrors.ErrTokenInvalidOrExpired
	case err != nil:
		return customErrors.WrapInternal(err, "ResetPassword")
	}

	passwordHash, err := a.hasher.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}

	err = a.userRepo.UpdateFields(ctx, user.ID, map[string]any{
		"password_hash":                passwordHash,
		"forgot_password_token_hash":   nil,
		"forgot_password_token_expiry": nil,
	})
	if err != nil {
		return customErrors.WrapInternal(err, "ResetPassword")
	}
	return nil
}

func (a *authService) ChangePassword(ctx context.Context, userID uuid.UUID, in dto.ChangePasswordDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByID(ctx, userID)
	switch {
	case customErrors.IsNotFound(err):
		return customErrors.ErrNotFound
	case err != nil:
		return customErrors.WrapInternal(err, "ChangePassword")
	}

	ok, err := a.hasher.ComparePassword(in.OldPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return customErrors.ErrWrongOldPassword
	}

	// Policy: the new password must differ from the current one, checked
	// against the stored hash rather than the submitted old password.
	same, err := a.hasher.ComparePassword(in.NewPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if same {
		return customErrors.ErrSamePassword
	}

	passwordHash, err := a.hasher.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	err = a.userRepo.UpdateFields(ctx, userID, map[string]any{
		"password_hash": passwordHash,
	})
	if err != nil {
		return customErrors.WrapInternal(err, "ChangePassword")
	}
	return nil
}

// issueTokens is the single rotation point: every successful login and
// refresh lands here, and persisting the new hash is one atomic field write
// that invalidates whatever refresh token was live before.
func (a *authService) issueTokens(ctx context.Context, uid uuid.UUID) (model.TokenPair, error) {
	at, atExp, _, err := a.jwtUtil.GenerateAccessToken(uid)
	if err != nil {
		return model.TokenPair{}, err
	}
	rt, rtExp, _, err := a.jwtUtil.GenerateRefreshToken(uid)
	if err != nil {
		return model.TokenPair{}, err
	}

	err = a.userRepo.UpdateFields(ctx, uid, map[string]any{
		"refresh_token_hash": a.hasher.HashOpaqueToken(rt),
	})
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "StoreRefreshHash")
	}

	now := time.Now()
	return model.TokenPair{
		AccessToken:  at,
		RefreshToken: rt,
		AccessTTL:    atExp.Sub(now),
		RefreshTTL:   rtExp.Sub(now),
		UserID:       uid,
	}, nil
}

func (a *authService) issueVerification(ctx context.Context, user model.User) error {
	tok, err := a.tokens.NewEphemeralToken(a.cfg.EphemeralTokenTTL)
	if err != nil {
		return err
	}

	err = a.userRepo.UpdateFields(ctx, user.ID, map[string]any{
		"email_verification_token_hash":   tok.Hash,
		"email_verification_token_expiry": tok.ExpiresAt,
	})
	if err != nil {
		return customErrors.WrapInternal(err, "StoreVerificationToken")
	}

	// The token is redeemable from here on; a failed send is logged, never
	// rolled back.
	link := fmt.Sprintf("%s/api/v1/auth/verify-email/%s", a.cfg.PublicBaseURL, tok.Plaintext)
	if err := a.mailer.SendVerificationEmail(ctx, user.FullName, user.Email, link); err != nil {
		a.log.Warn("verification email not sent", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	return nil
}
