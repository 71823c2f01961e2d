package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bimeh/internal/delivery/http/middleware"
	"bimeh/internal/delivery/http/validator"
	"bimeh/internal/domain/entity"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthUsecase struct {
	registerFn func(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error)
	loginFn    func(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error)
	meFn       func(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}

func (s *stubAuthUsecase) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	return s.loginFn(ctx, input)
}

func (s *stubAuthUsecase) Refresh(context.Context, *usecase.RefreshTokenInput) (*usecase.RefreshOutput, error) {
	return nil, nil
}

func (s *stubAuthUsecase) Logout(context.Context, *usecase.LogoutInput) error {
	return nil
}

func (s *stubAuthUsecase) Me(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.meFn(ctx, userID)
}

func newAuthHandlerForTest(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUC: uc,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register(t *testing.T) {
	uc := &stubAuthUsecase{
		registerFn: func(_ context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
			assert.Equal(t, "1234567891", input.NationalID)
			assert.Equal(t, "علی", input.FirstName)

			return &usecase.AuthOutput{
				AccessToken:  "access",
				RefreshToken: "refresh",
				User: &entity.User{
					ID:           uuid.New(),
					NationalID:   input.NationalID,
					FirstName:    input.FirstName,
					LastName:     input.LastName,
					PasswordHash: "$2a$10$secret",
					IsActive:     true,
				},
			}, nil
		},
	}

	body := `{"national_id":"1234567891","first_name":"علی","last_name":"رضایی","password":"Str0ng!pass"}`
	c, rec := newJSONContext(t, http.MethodPost, "/auth/register", body)

	err := newAuthHandlerForTest(uc).Register(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_token")
	// The bcrypt hash must never appear in a response.
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestAuthHandler_Register_ShortNationalID(t *testing.T) {
	body := `{"national_id":"12345","first_name":"علی","last_name":"رضایی","password":"Str0ng!pass"}`
	c, rec := newJSONContext(t, http.MethodPost, "/auth/register", body)

	err := newAuthHandlerForTest(&stubAuthUsecase{}).Register(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestAuthHandler_Login_MissingPassword(t *testing.T) {
	c, rec := newJSONContext(t, http.MethodPost, "/auth/login", `{"national_id":"1234567891"}`)

	err := newAuthHandlerForTest(&stubAuthUsecase{}).Login(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	userID := uuid.New()
	uc := &stubAuthUsecase{
		meFn: func(_ context.Context, gotID uuid.UUID) (*entity.User, error) {
			assert.Equal(t, userID, gotID)

			return &entity.User{ID: gotID, FirstName: "مریم", LastName: "کریمی", IsAdmin: true}, nil
		},
	}

	c, rec := newJSONContext(t, http.MethodGet, "/auth/me", "")
	c.Set(middleware.ContextKeyUserID, userID)

	err := newAuthHandlerForTest(uc).Me(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_admin":true`)
	assert.Contains(t, rec.Body.String(), "مریم کریمی")
}

func TestAuthHandler_Me_NoIdentity(t *testing.T) {
	c, rec := newJSONContext(t, http.MethodGet, "/auth/me", "")

	err := newAuthHandlerForTest(&stubAuthUsecase{}).Me(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
