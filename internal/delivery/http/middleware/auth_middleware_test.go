package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bimeh/config"
	"bimeh/internal/domain/service"
	"bimeh/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) (service.TokenService, *AuthMiddleware) {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	svc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return svc, NewAuthMiddleware(svc)
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func performRequest(mw echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/insurance/registrations", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = mw(okHandler)(c)

	return rec
}

func TestAuthenticate_ValidAccessToken(t *testing.T) {
	svc, mw := newTestTokenService(t)
	userID := uuid.New()

	accessToken, _, err := svc.GenerateTokens(userID, []string{"user"})
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+accessToken)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID uuid.UUID
	var gotRoles []string
	err = mw.Authenticate(func(c echo.Context) error {
		gotUserID = c.Get(ContextKeyUserID).(uuid.UUID)
		gotRoles = c.Get(ContextKeyRoles).([]string)

		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUserID)
	assert.Equal(t, []string{"user"}, gotRoles)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	_, mw := newTestTokenService(t)

	rec := performRequest(mw.Authenticate, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_TOKEN")
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	_, mw := newTestTokenService(t)

	rec := performRequest(mw.Authenticate, "Bearer not-a-token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}

func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	svc, mw := newTestTokenService(t)

	_, refreshToken, err := svc.GenerateTokens(uuid.New(), []string{"user"})
	require.NoError(t, err)

	rec := performRequest(mw.Authenticate, "Bearer "+refreshToken)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin_NonAdminForbidden(t *testing.T) {
	svc, mw := newTestTokenService(t)

	accessToken, _, err := svc.GenerateTokens(uuid.New(), []string{"user"})
	require.NoError(t, err)

	chain := mw.Authenticate(mw.RequireAdmin()(okHandler))
	rec := performRequest(func(echo.HandlerFunc) echo.HandlerFunc { return chain }, "Bearer "+accessToken)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	svc, mw := newTestTokenService(t)

	accessToken, _, err := svc.GenerateTokens(uuid.New(), []string{"user", "admin"})
	require.NoError(t, err)

	chain := mw.Authenticate(mw.RequireAdmin()(okHandler))
	rec := performRequest(func(echo.HandlerFunc) echo.HandlerFunc { return chain }, "Bearer "+accessToken)

	assert.Equal(t, http.StatusOK, rec.Code)
}
