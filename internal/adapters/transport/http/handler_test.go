package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/taskhub/auth-service/internal/adapters/transport/http"
	"github.com/taskhub/auth-service/internal/adapters/transport/http/dto"
	appjwt "github.com/taskhub/auth-service/internal/app/auth/jwt"
	authErrors "github.com/taskhub/auth-service/internal/domain/auth/errors"
	"github.com/taskhub/auth-service/internal/domain/auth/model"
	"github.com/taskhub/auth-service/internal/infra/config"
)

type serviceStub struct {
	loginErr   error
	refreshErr error
	verifyErr  error
	forgotErr  error
	pair       model.TokenPair
	user       model.User

	lastRefreshToken string
}

func (s *serviceStub) Register(context.Context, dto.RegisterDTO, dto.AvatarUpload) (model.User, error) {
	return s.user, nil
}

func (s *serviceStub) Login(context.Context, dto.LoginDTO) (model.TokenPair, error) {
	if s.loginErr != nil {
		return model.TokenPair{}, s.loginErr
	}
	return s.pair, nil
}

func (s *serviceStub) Logout(context.Context, uuid.UUID) error { return nil }

func (s *serviceStub) Refresh(_ context.Context, in dto.RefreshDTO) (model.TokenPair, error) {
	s.lastRefreshToken = in.RefreshToken
	if s.refreshErr != nil {
		return model.TokenPair{}, s.refreshErr
	}
	return s.pair, nil
}

func (s *serviceStub) CurrentUser(context.Context, uuid.UUID) (model.User, error) {
	return s.user, nil
}

func (s *serviceStub) VerifyEmail(context.Context, string) error { return s.verifyErr }

func (s *serviceStub) ResendVerification(context.Context, uuid.UUID) error { return nil }

func (s *serviceStub) RequestPasswordReset(context.Context, dto.ForgotPasswordDTO) error {
	return s.forgotErr
}

func (s *serviceStub) ResetPassword(context.Context, string, dto.ResetPasswordDTO) error {
	return nil
}

func (s *serviceStub) ChangePassword(context.Context, uuid.UUID, dto.ChangePasswordDTO) error {
	return nil
}

func newTestRouter(t *testing.T, svc *serviceStub) (*gin.Engine, *appjwt.JwtUtilImpl) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     time.Minute,
		RefreshTokenTTL:    time.Hour,
		Issuer:             "test",
		Audience:           "test",
	}
	jwtUtil, err := appjwt.NewJWTUtil(cfg)
	require.NoError(t, err)

	router := gin.New()
	httptransport.NewHandler(svc, jwtUtil, cfg, zap.NewNop()).RegisterRoutes(router)
	return router, jwtUtil
}

func TestLogin_SetsCookiesAndBody(t *testing.T) {
	uid := uuid.New()
	svc := &serviceStub{pair: model.TokenPair{
		AccessToken:  "at",
		RefreshToken: "rt",
		AccessTTL:    time.Minute,
		RefreshTTL:   time.Hour,
		UserID:       uid,
	}}
	router, _ := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"a@x.com","password":"Str0ng!Pw"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"access_token":"at"`)
	require.Contains(t, rec.Body.String(), uid.String())

	cookies := rec.Result().Cookies()
	byName := map[string]*http.Cookie{}
	for _, ck := range cookies {
		byName[ck.Name] = ck
	}
	require.Contains(t, byName, "access_token")
	require.Contains(t, byName, "refresh_token")
	require.True(t, byName["refresh_token"].HttpOnly)
	require.True(t, byName["refresh_token"].Secure)
}

func TestLogin_InvalidCredentialsIs401(t *testing.T) {
	svc := &serviceStub{loginErr: authErrors.ErrInvalidCredentials}
	router, _ := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"a@x.com","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_PrefersCookieOverBody(t *testing.T) {
	svc := &serviceStub{pair: model.TokenPair{AccessToken: "at", RefreshToken: "rt2", UserID: uuid.New()}}
	router, _ := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh-token",
		strings.NewReader(`{"refresh_token":"from-body"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "from-cookie"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "from-cookie", svc.lastRefreshToken)
}

func TestRefresh_MissingTokenIs401(t *testing.T) {
	router, _ := newTestRouter(t, &serviceStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh-token", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		svc    *serviceStub
		method string
		path   string
		body   string
		want   int
	}{
		{
			name:   "superseded refresh token",
			svc:    &serviceStub{refreshErr: authErrors.ErrTokenMismatch},
			method: http.MethodPost, path: "/api/v1/auth/refresh-token",
			body: `{"refresh_token":"old"}`, want: http.StatusUnauthorized,
		},
		{
			name:   "expired refresh token",
			svc:    &serviceStub{refreshErr: authErrors.ErrExpiredToken},
			method: http.MethodPost, path: "/api/v1/auth/refresh-token",
			body: `{"refresh_token":"old"}`, want: http.StatusUnauthorized,
		},
		{
			name:   "spent verification token",
			svc:    &serviceStub{verifyErr: authErrors.ErrTokenInvalidOrExpired},
			method: http.MethodGet, path: "/api/v1/auth/verify-email/deadbeef",
			want: http.StatusBadRequest,
		},
		{
			name:   "forgot password for unknown email",
			svc:    &serviceStub{forgotErr: authErrors.ErrNotFound},
			method: http.MethodPost, path: "/api/v1/auth/forgot-password",
			body: `{"email":"none@x.com"}`, want: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newTestRouter(t, tc.svc)

			var req *http.Request
			if tc.body != "" {
				req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tc.method, tc.path, nil)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestProtectedRoutesRequireAccessToken(t *testing.T) {
	uid := uuid.New()
	svc := &serviceStub{user: model.User{ID: uid, Username: "alice", Email: "a@x.com"}}
	router, jwtUtil := newTestRouter(t, svc)

	// no credentials
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/current-user", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// bearer header
	token, _, _, err := jwtUtil.GenerateAccessToken(uid)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/current-user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), uid.String())

	// cookie
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/current-user", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// refresh token must not open protected routes
	rt, _, _, err := jwtUtil.GenerateRefreshToken(uid)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/current-user", nil)
	req.Header.Set("Authorization", "Bearer "+rt)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
