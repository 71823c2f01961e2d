package handler

import (
	"log/slog"
	"net/http"

	"bimeh/internal/delivery/http/response"
	"bimeh/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// StatisticsHandlerParams holds dependencies for StatisticsHandler,
// injected by Fx.
type StatisticsHandlerParams struct {
	fx.In

	StatisticsUC usecase.StatisticsUsecase
	Logger       *slog.Logger
}

// StatisticsHandler serves the admin dashboard aggregates.
type StatisticsHandler struct {
	statisticsUC usecase.StatisticsUsecase
	logger       *slog.Logger
}

// NewStatisticsHandler is the constructor for StatisticsHandler.
func NewStatisticsHandler(params StatisticsHandlerParams) *StatisticsHandler {
	return &StatisticsHandler{
		statisticsUC: params.StatisticsUC,
		logger:       params.Logger,
	}
}

// Overview summarizes the whole portal on one dashboard card.
func (h *StatisticsHandler) Overview(c echo.Context) error {
	stats, err := h.statisticsUC.Overview(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "")
}

// Registrations breaks registrations down by status, plan, and month.
func (h *StatisticsHandler) Registrations(c echo.Context) error {
	stats, err := h.statisticsUC.Registrations(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "")
}

// Persons breaks covered persons down by relation and age.
func (h *StatisticsHandler) Persons(c echo.Context) error {
	stats, err := h.statisticsUC.Persons(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "")
}

// Schools breaks the school directory down by type and state.
func (h *StatisticsHandler) Schools(c echo.Context) error {
	stats, err := h.statisticsUC.Schools(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "")
}

// Plans breaks the plan catalog down with popularity figures.
func (h *StatisticsHandler) Plans(c echo.Context) error {
	stats, err := h.statisticsUC.Plans(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "")
}

// Users breaks accounts down for the admin dashboard.
func (h *StatisticsHandler) Users(c echo.Context) error {
	stats, err := h.statisticsUC.Users(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "")
}
