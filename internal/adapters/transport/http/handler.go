package http

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taskhub/auth-service/internal/adapters/transport/http/dto"
	"github.com/taskhub/auth-service/internal/adapters/transport/http/middleware"
	"github.com/taskhub/auth-service/internal/app/auth/service"
	authErrors "github.com/taskhub/auth-service/internal/domain/auth/errors"
	"github.com/taskhub/auth-service/internal/domain/auth/jwt"
	"github.com/taskhub/auth-service/internal/domain/auth/model"
	"github.com/taskhub/auth-service/internal/infra/config"
)

const maxAvatarBytes = 5 << 20

type Handler struct {
	svc     service.Service
	jwtUtil jwt.JWTUtil
	cfg     *config.Config
	log     *zap.Logger
}

func NewHandler(svc service.Service, jwtUtil jwt.JWTUtil, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{svc: svc, jwtUtil: jwtUtil, cfg: cfg, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	grp := r.Group("/api/v1/auth")
	grp.POST("/register", h.register)
	grp.POST("/login", h.login)
	grp.POST("/refresh-token", h.refresh)
	grp.GET("/verify-email/:token", h.verifyEmail)
	grp.POST("/forgot-password", h.forgotPassword)
	grp.POST("/reset-password/:token", h.resetPassword)

	authed := grp.Group("", middleware.RequireAuth(h.jwtUtil))
	authed.POST("/logout", h.logout)
	authed.POST("/resend-verify-email", h.resendVerification)
	authed.POST("/change-password", h.changePassword)
	authed.GET("/current-user", h.currentUser)
}

func (h *Handler) register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar is required"})
		return
	}
	if file.Size > maxAvatarBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar too large"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar is unreadable"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar is unreadable"})
		return
	}

	avatar := dto.AvatarUpload{
		Data:        data,
		ContentType: file.Header.Get("Content-Type"),
	}

	user, err := h.svc.Register(c.Request.Context(), body, avatar)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    userResponse(user),
		"message": "user created, verification email sent",
	})
}

func (h *Handler) login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.issueTokens(c, pair)
}

func (h *Handler) logout(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.svc.Logout(c.Request.Context(), uid); err != nil {
		h.handleError(c, err)
		return
	}

	h.clearTokenCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) refresh(c *gin.Context) {
	var body dto.RefreshDTO
	if cookie, err := c.Cookie("refresh_token"); err == nil && cookie != "" {
		body.RefreshToken = cookie
	} else if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing refresh token"})
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.issueTokens(c, pair)
}

func (h *Handler) verifyEmail(c *gin.Context) {
	if err := h.svc.VerifyEmail(c.Request.Context(), c.Param("token")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email_verified": true})
}

func (h *Handler) resendVerification(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.svc.ResendVerification(c.Request.Context(), uid); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification email re-sent"})
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var body dto.ForgotPasswordDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), body); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset email sent"})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var body dto.ResetPasswordDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), c.Param("token"), body); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"password_changed": true})
}

func (h *Handler) changePassword(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body dto.ChangePasswordDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), uid, body); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"password_changed": true})
}

func (h *Handler) currentUser(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.svc.CurrentUser(c.Request.Context(), uid)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

func (h *Handler) issueTokens(c *gin.Context, pair model.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		"access_token",
		pair.AccessToken,
		int(pair.AccessTTL.Seconds()),
		"/",
		h.cfg.CookieDomain,
		true, // secure
		true, // httpOnly
	)

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		"refresh_token",
		pair.RefreshToken,
		int(pair.RefreshTTL.Seconds()),
		"/",
		h.cfg.CookieDomain,
		true,
		true,
	)

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    int(pair.AccessTTL.Seconds()),
		"user_id":       pair.UserID.String(),
	})
}

func (h *Handler) clearTokenCookies(c *gin.Context) {
	c.SetCookie("access_token", "", -1, "/", h.cfg.CookieDomain, true, true)
	c.SetCookie("refresh_token", "", -1, "/", h.cfg.CookieDomain, true, true)
}

// handleError is the single place the error taxonomy maps to HTTP statuses.
// Internal failures surface as a generic 500; details stay in the logs.
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case authErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case authErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case authErrors.IsExpiredToken(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "expired token"})
	case authErrors.IsTokenMismatch(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token superseded"})
	case authErrors.IsInvalidToken(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case authErrors.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case authErrors.IsTokenInvalidOrExpired(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "token invalid or expired"})
	case authErrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
	case authErrors.IsAlreadyVerified(err):
		c.JSON(http.StatusConflict, gin.H{"error": "email already verified"})
	case authErrors.IsWrongOldPassword(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "wrong old password"})
	case authErrors.IsSamePassword(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "new password must differ from current"})
	case authErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.log.Error("unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func userResponse(u model.User) gin.H {
	return gin.H{
		"id":             u.ID.String(),
		"full_name":      u.FullName,
		"username":       u.Username,
		"email":          u.Email,
		"email_verified": u.EmailVerified,
		"avatar_url":     u.AvatarURL,
		"created_at":     u.CreatedAt,
		"updated_at":     u.UpdatedAt,
	}
}
