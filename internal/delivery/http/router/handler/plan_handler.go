package handler

import (
	"log/slog"
	"net/http"

	"bimeh/internal/delivery/http/response"
	"bimeh/internal/domain/entity"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// PlanHandlerParams holds dependencies for PlanHandler, injected by Fx.
type PlanHandlerParams struct {
	fx.In

	PlanUC usecase.PlanUsecase
	Logger *slog.Logger
}

// PlanHandler serves the public plan catalog and the admin mirror.
type PlanHandler struct {
	planUC usecase.PlanUsecase
	logger *slog.Logger
}

// NewPlanHandler is the constructor for PlanHandler.
func NewPlanHandler(params PlanHandlerParams) *PlanHandler {
	return &PlanHandler{
		planUC: params.PlanUC,
		logger: params.Logger,
	}
}

// PlanRequest represents the request body for creating or updating a plan.
type PlanRequest struct {
	Name           string `json:"name" validate:"required"`
	PlanType       string `json:"plan_type" validate:"required"`
	Description    string `json:"description"`
	MonthlyPremium int64  `json:"monthly_premium"`
	IsActive       *bool  `json:"is_active"`
}

// CoverageRequest represents the request body for creating or updating
// a coverage item.
type CoverageRequest struct {
	PlanID             uuid.UUID `json:"plan_id" validate:"required"`
	CoverageType       string    `json:"coverage_type" validate:"required"`
	Title              string    `json:"title" validate:"required"`
	Description        string    `json:"description"`
	CoverageAmount     int64     `json:"coverage_amount"`
	CoveragePercentage int       `json:"coverage_percentage"`
	MaxUsageCount      *int      `json:"max_usage_count"`
	IsActive           *bool     `json:"is_active"`
}

// ListPlans returns the active plans with their coverages.
func (h *PlanHandler) ListPlans(c echo.Context) error {
	plans, err := h.planUC.ListPlans(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, plans, "")
}

// GetPlan returns one plan with its coverages.
func (h *PlanHandler) GetPlan(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	plan, err := h.planUC.GetPlan(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, plan, "")
}

// ListAllPlans returns every plan including retired ones.
func (h *PlanHandler) ListAllPlans(c echo.Context) error {
	plans, err := h.planUC.ListAllPlans(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, plans, "")
}

// ListCoverages returns every coverage item across all plans.
func (h *PlanHandler) ListCoverages(c echo.Context) error {
	coverages, err := h.planUC.ListCoverages(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, coverages, "")
}

// CreatePlan adds a plan to the catalog.
func (h *PlanHandler) CreatePlan(c echo.Context) error {
	input, err := h.bindPlan(c)
	if err != nil {
		return err
	}

	plan, err := h.planUC.CreatePlan(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, plan, "طرح بیمه با موفقیت ایجاد شد")
}

// UpdatePlan modifies a plan.
func (h *PlanHandler) UpdatePlan(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	input, err := h.bindPlan(c)
	if err != nil {
		return err
	}

	plan, err := h.planUC.UpdatePlan(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, plan, "طرح بیمه با موفقیت به‌روزرسانی شد")
}

// DeletePlan retires a plan from new registrations. Existing
// registrations keep it.
func (h *PlanHandler) DeletePlan(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.planUC.DeactivatePlan(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "طرح بیمه غیرفعال شد")
}

// CreateCoverage adds a coverage item to a plan.
func (h *PlanHandler) CreateCoverage(c echo.Context) error {
	input, err := h.bindCoverage(c)
	if err != nil {
		return err
	}

	coverage, err := h.planUC.CreateCoverage(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, coverage, "پوشش بیمه‌ای با موفقیت ایجاد شد")
}

// UpdateCoverage modifies a coverage item.
func (h *PlanHandler) UpdateCoverage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	input, err := h.bindCoverage(c)
	if err != nil {
		return err
	}

	coverage, err := h.planUC.UpdateCoverage(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, coverage, "پوشش بیمه‌ای با موفقیت به‌روزرسانی شد")
}

// DeleteCoverage removes a coverage item.
func (h *PlanHandler) DeleteCoverage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.planUC.DeleteCoverage(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "پوشش بیمه‌ای حذف شد")
}

func (h *PlanHandler) bindPlan(c echo.Context) (*usecase.PlanInput, error) {
	var req PlanRequest
	if err := c.Bind(&req); err != nil {
		return nil, response.BindingError(c, "INVALID_INPUT", "اطلاعات طرح نامعتبر است")
	}
	if err := c.Validate(&req); err != nil {
		return nil, response.BadRequest(c, "VALIDATION_ERROR", "اطلاعات طرح ناقص است")
	}

	return &usecase.PlanInput{
		Name:           req.Name,
		PlanType:       entity.PlanType(req.PlanType),
		Description:    req.Description,
		MonthlyPremium: req.MonthlyPremium,
		IsActive:       req.IsActive,
	}, nil
}

func (h *PlanHandler) bindCoverage(c echo.Context) (*usecase.CoverageInput, error) {
	var req CoverageRequest
	if err := c.Bind(&req); err != nil {
		return nil, response.BindingError(c, "INVALID_INPUT", "اطلاعات پوشش نامعتبر است")
	}
	if err := c.Validate(&req); err != nil {
		return nil, response.BadRequest(c, "VALIDATION_ERROR", "اطلاعات پوشش ناقص است")
	}

	return &usecase.CoverageInput{
		PlanID:             req.PlanID,
		CoverageType:       entity.CoverageType(req.CoverageType),
		Title:              req.Title,
		Description:        req.Description,
		CoverageAmount:     req.CoverageAmount,
		CoveragePercentage: req.CoveragePercentage,
		MaxUsageCount:      req.MaxUsageCount,
		IsActive:           req.IsActive,
	}, nil
}
