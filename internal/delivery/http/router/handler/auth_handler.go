package handler

import (
	"log/slog"
	"net/http"
	"time"

	"bimeh/internal/delivery/http/response"
	"bimeh/internal/domain/entity"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

// RegisterRequest represents the request body for account registration.
type RegisterRequest struct {
	NationalID string `json:"national_id" validate:"required,len=10"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"omitempty,max=11"`
	Password   string `json:"password" validate:"required"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	NationalID string `json:"national_id" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// TokenRequest carries a refresh token for refresh and logout.
type TokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserResponse is the account representation returned by the API. The
// password hash never leaves the service.
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	NationalID string    `json:"national_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	IsActive   bool      `json:"is_active"`
	IsStaff    bool      `json:"is_staff"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewUserResponse maps an account entity to its API representation.
func NewUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		NationalID: u.NationalID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		FullName:   u.FullName(),
		Email:      u.Email,
		Phone:      u.Phone,
		IsActive:   u.IsActive,
		IsStaff:    u.IsStaff,
		IsAdmin:    u.IsAdmin,
		CreatedAt:  u.CreatedAt,
	}
}

// AuthResponse returns the token pair together with the account.
type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user"`
}

// Register handles the account registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "اطلاعات ثبت‌نام نامعتبر است")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "اطلاعات ثبت‌نام ناقص است")
	}

	output, err := h.authUC.Register(c.Request().Context(), &usecase.RegisterInput{
		NationalID: req.NationalID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Password:   req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, AuthResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User:         NewUserResponse(output.User),
	}, "ثبت‌نام با موفقیت انجام شد")
}

// Login handles the login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "اطلاعات ورود نامعتبر است")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "کد ملی و رمز عبور الزامی است")
	}

	output, err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{
		NationalID: req.NationalID,
		Password:   req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, AuthResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User:         NewUserResponse(output.User),
	}, "ورود با موفقیت انجام شد")
}

// Refresh handles the token rotation request.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "توکن نامعتبر است")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "توکن الزامی است")
	}

	output, err := h.authUC.Refresh(c.Request().Context(), &usecase.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
	}, "توکن با موفقیت تمدید شد")
}

// Logout handles the logout request.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "توکن نامعتبر است")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "توکن الزامی است")
	}

	if err := h.authUC.Logout(c.Request().Context(), &usecase.LogoutInput{
		RefreshToken: req.RefreshToken,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "خروج با موفقیت انجام شد")
}

// Me returns the authenticated account's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authUC.Me(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, NewUserResponse(user), "")
}
