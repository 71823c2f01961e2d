package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"bimeh/internal/delivery/http/response"
	"bimeh/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	ProfileUC usecase.ProfileUsecase
	Logger    *slog.Logger
}

// UserHandler covers profile edits and the admin account directory.
type UserHandler struct {
	profileUC usecase.ProfileUsecase
	logger    *slog.Logger
}

// NewUserHandler is the constructor for UserHandler.
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		profileUC: params.ProfileUC,
		logger:    params.Logger,
	}
}

// UpdateProfileRequest represents the request body for a profile edit.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,max=11"`
}

// SetActiveRequest toggles an account on or off.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// UpdateProfile handles the caller's own profile edit.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "اطلاعات پروفایل نامعتبر است")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "اطلاعات پروفایل نامعتبر است")
	}

	user, err := h.profileUC.UpdateProfile(c.Request().Context(), userID, &usecase.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, NewUserResponse(user), "پروفایل با موفقیت به‌روزرسانی شد")
}

// ListUsers pages through accounts for the admin directory.
func (h *UserHandler) ListUsers(c echo.Context) error {
	input := &usecase.ListUsersInput{
		Search:   c.QueryParam("search"),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}
	if raw := c.QueryParam("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_FILTER", "مقدار فیلتر وضعیت نامعتبر است")
		}
		input.IsActive = &active
	}

	output, err := h.profileUC.ListUsers(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	users := make([]*UserResponse, len(output.Users))
	for i, u := range output.Users {
		users[i] = NewUserResponse(u)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"users": users,
		"total": output.Total,
	}, "")
}

// GetUser loads one account for the admin directory.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.profileUC.GetUser(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, NewUserResponse(user), "")
}

// SetUserActive enables or disables an account. Disabling revokes its
// sessions.
func (h *UserHandler) SetUserActive(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req SetActiveRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "اطلاعات نامعتبر است")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "وضعیت فعال بودن الزامی است")
	}

	user, err := h.profileUC.SetUserActive(c.Request().Context(), id, *req.IsActive)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, NewUserResponse(user), "وضعیت حساب کاربری تغییر کرد")
}

// queryInt parses an optional integer query parameter, zero on absence
// or garbage. Paging defaults are applied by the usecases.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}

	return n
}
