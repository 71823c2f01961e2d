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

// RegistrationHandlerParams holds dependencies for RegistrationHandler,
// injected by Fx.
type RegistrationHandlerParams struct {
	fx.In

	RegistrationUC usecase.RegistrationUsecase
	Logger         *slog.Logger
}

// RegistrationHandler covers registration submission, the insurance
// card, and the admin status workflow.
type RegistrationHandler struct {
	registrationUC usecase.RegistrationUsecase
	logger         *slog.Logger
}

// NewRegistrationHandler is the constructor for RegistrationHandler.
func NewRegistrationHandler(params RegistrationHandlerParams) *RegistrationHandler {
	return &RegistrationHandler{
		registrationUC: params.RegistrationUC,
		logger:         params.Logger,
	}
}

// CreateRegistrationRequest represents the request body for submitting
// a registration.
type CreateRegistrationRequest struct {
	PlanID         uuid.UUID      `json:"plan_id" validate:"required"`
	SchoolID       uuid.UUID      `json:"school_id" validate:"required"`
	PersonIDs      []uuid.UUID    `json:"person_ids"`
	AdditionalInfo map[string]any `json:"additional_info"`
}

// SetStatusRequest represents the admin status change body. Dates use
// RFC 3339.
type SetStatusRequest struct {
	Status    string     `json:"status" validate:"required"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Note      string     `json:"note"`
}

// Create submits a new registration in the pending status.
func (h *RegistrationHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req CreateRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "اطلاعات ثبت‌نام نامعتبر است")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "طرح بیمه و مدرسه الزامی است")
	}

	registration, err := h.registrationUC.Create(c.Request().Context(), userID, &usecase.CreateRegistrationInput{
		PlanID:         req.PlanID,
		SchoolID:       req.SchoolID,
		PersonIDs:      req.PersonIDs,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, registration, "ثبت‌نام شما با موفقیت ثبت شد و در انتظار بررسی است")
}

// ListMine returns the caller's own registrations.
func (h *RegistrationHandler) ListMine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	registrations, err := h.registrationUC.ListMine(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, registrations, "")
}

// GetMine returns one of the caller's own registrations.
func (h *RegistrationHandler) GetMine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	registration, err := h.registrationUC.GetMine(c.Request().Context(), userID, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, registration, "")
}

// Card streams the insurance-card QR PNG for an active registration.
func (h *RegistrationHandler) Card(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	png, err := h.registrationUC.Card(c.Request().Context(), userID, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// List pages through registrations for the admin dashboard.
func (h *RegistrationHandler) List(c echo.Context) error {
	input := &usecase.ListRegistrationsInput{
		Status:   entity.RegistrationStatus(c.QueryParam("status")),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}

	var ok bool
	if input.UserID, ok = queryUUID(c, "user_id"); !ok {
		return response.BadRequest(c, "INVALID_FILTER", "شناسه کاربر نامعتبر است")
	}
	if input.PlanID, ok = queryUUID(c, "plan_id"); !ok {
		return response.BadRequest(c, "INVALID_FILTER", "شناسه طرح نامعتبر است")
	}
	if input.SchoolID, ok = queryUUID(c, "school_id"); !ok {
		return response.BadRequest(c, "INVALID_FILTER", "شناسه مدرسه نامعتبر است")
	}
	if input.Status != "" && !input.Status.IsValid() {
		return response.BadRequest(c, "INVALID_FILTER", "وضعیت نامعتبر است")
	}

	output, err := h.registrationUC.List(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"registrations": output.Registrations,
		"total":         output.Total,
	}, "")
}

// Get returns any registration for the admin dashboard.
func (h *RegistrationHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	registration, err := h.registrationUC.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, registration, "")
}

// SetStatus moves a registration to a new status.
func (h *RegistrationHandler) SetStatus(c echo.Context) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "اطلاعات وضعیت نامعتبر است")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "وضعیت الزامی است")
	}

	status := entity.RegistrationStatus(req.Status)
	if !status.IsValid() {
		return response.BadRequest(c, "INVALID_STATUS", "وضعیت نامعتبر است")
	}

	registration, err := h.registrationUC.SetStatus(c.Request().Context(), actorID, id, &usecase.SetStatusInput{
		Status:    status,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Note:      req.Note,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, registration, "وضعیت ثبت‌نام به «"+status.Label()+"» تغییر کرد")
}
