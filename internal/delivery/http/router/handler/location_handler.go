package handler

import (
	"log/slog"
	"net/http"

	"bimeh/internal/cascade"
	"bimeh/internal/delivery/http/response"
	"bimeh/internal/domain/entity"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// LocationHandlerParams holds dependencies for LocationHandler, injected by Fx.
type LocationHandlerParams struct {
	fx.In

	LocationUC usecase.LocationUsecase
	Logger     *slog.Logger
}

// LocationHandler serves the cascade data source and the admin mirror
// of the State→School hierarchy.
type LocationHandler struct {
	locationUC usecase.LocationUsecase
	logger     *slog.Logger
}

// NewLocationHandler is the constructor for LocationHandler.
func NewLocationHandler(params LocationHandlerParams) *LocationHandler {
	return &LocationHandler{
		locationUC: params.LocationUC,
		logger:     params.Logger,
	}
}

// NodeRequest represents the request body for creating or updating a
// hierarchy node.
type NodeRequest struct {
	ParentID   uuid.UUID `json:"parent_id"`
	Name       string    `json:"name" validate:"required"`
	Code       string    `json:"code"`
	OrderIndex int       `json:"order_index"`
}

// SchoolRequest represents the request body for creating or updating a
// school.
type SchoolRequest struct {
	DistrictID uuid.UUID `json:"district_id" validate:"required"`
	Name       string    `json:"name" validate:"required"`
	Code       string    `json:"code" validate:"required"`
	SchoolType string    `json:"school_type" validate:"required"`
	Address    string    `json:"address"`
	Phone      string    `json:"phone"`
}

// Children returns the cascade options of one tier under the parent
// named by parentParam. States take no parent.
func (h *LocationHandler) Children(tier cascade.Tier, parentParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		parentID := uuid.Nil
		if parentParam != "" {
			id, ok := queryUUID(c, parentParam)
			if !ok {
				return response.BadRequest(c, "INVALID_PARENT", "شناسه والد نامعتبر است")
			}
			parentID = id
		}

		nodes, err := h.locationUC.Children(c.Request().Context(), tier, parentID)
		if err != nil {
			return errors.WithStack(err)
		}

		return response.Success(c, http.StatusOK, nodes, "")
	}
}

// Schools lists schools, the final cascade tier.
func (h *LocationHandler) Schools(c echo.Context) error {
	districtID, ok := queryUUID(c, "district_id")
	if !ok {
		return response.BadRequest(c, "INVALID_PARENT", "شناسه منطقه آموزشی نامعتبر است")
	}

	schools, err := h.locationUC.Schools(c.Request().Context(), &usecase.SchoolsInput{
		DistrictID: districtID,
		SchoolType: entity.SchoolType(c.QueryParam("type")),
		Search:     c.QueryParam("search"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, schools, "")
}

// SchoolChain resolves a school's full State→School path, used to
// prefill the cascade when editing.
func (h *LocationHandler) SchoolChain(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	chain, err := h.locationUC.SchoolChain(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, chain, "")
}

// CreateNode adds a hierarchy node at the given tier.
func (h *LocationHandler) CreateNode(tier cascade.Tier) echo.HandlerFunc {
	return func(c echo.Context) error {
		input, err := h.bindNode(c)
		if err != nil {
			return err
		}

		node, err := h.locationUC.CreateNode(c.Request().Context(), tier, input)
		if err != nil {
			return errors.WithStack(err)
		}

		return response.Success(c, http.StatusCreated, node, "با موفقیت ایجاد شد")
	}
}

// UpdateNode modifies a hierarchy node at the given tier.
func (h *LocationHandler) UpdateNode(tier cascade.Tier) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}

		input, err := h.bindNode(c)
		if err != nil {
			return err
		}

		node, err := h.locationUC.UpdateNode(c.Request().Context(), tier, id, input)
		if err != nil {
			return errors.WithStack(err)
		}

		return response.Success(c, http.StatusOK, node, "با موفقیت به‌روزرسانی شد")
	}
}

// DeleteNode removes a childless hierarchy node at the given tier.
func (h *LocationHandler) DeleteNode(tier cascade.Tier) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}

		if err := h.locationUC.DeleteNode(c.Request().Context(), tier, id); err != nil {
			return errors.WithStack(err)
		}

		return response.Success(c, http.StatusOK, nil, "با موفقیت حذف شد")
	}
}

// CreateSchool adds a school under a district.
func (h *LocationHandler) CreateSchool(c echo.Context) error {
	input, err := h.bindSchool(c)
	if err != nil {
		return err
	}

	school, err := h.locationUC.CreateSchool(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, school, "مدرسه با موفقیت ایجاد شد")
}

// UpdateSchool modifies a school.
func (h *LocationHandler) UpdateSchool(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	input, err := h.bindSchool(c)
	if err != nil {
		return err
	}

	school, err := h.locationUC.UpdateSchool(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, school, "مدرسه با موفقیت به‌روزرسانی شد")
}

// DeleteSchool removes a school.
func (h *LocationHandler) DeleteSchool(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.locationUC.DeleteSchool(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "مدرسه با موفقیت حذف شد")
}

func (h *LocationHandler) bindNode(c echo.Context) (*usecase.NodeInput, error) {
	var req NodeRequest
	if err := c.Bind(&req); err != nil {
		return nil, response.BindingError(c, "INVALID_INPUT", "اطلاعات نامعتبر است")
	}
	if err := c.Validate(&req); err != nil {
		return nil, response.BadRequest(c, "VALIDATION_ERROR", "نام الزامی است")
	}

	return &usecase.NodeInput{
		ParentID:   req.ParentID,
		Name:       req.Name,
		Code:       req.Code,
		OrderIndex: req.OrderIndex,
	}, nil
}

func (h *LocationHandler) bindSchool(c echo.Context) (*usecase.SchoolInput, error) {
	var req SchoolRequest
	if err := c.Bind(&req); err != nil {
		return nil, response.BindingError(c, "INVALID_INPUT", "اطلاعات مدرسه نامعتبر است")
	}
	if err := c.Validate(&req); err != nil {
		return nil, response.BadRequest(c, "VALIDATION_ERROR", "اطلاعات مدرسه ناقص است")
	}

	return &usecase.SchoolInput{
		DistrictID: req.DistrictID,
		Name:       req.Name,
		Code:       req.Code,
		SchoolType: entity.SchoolType(req.SchoolType),
		Address:    req.Address,
		Phone:      req.Phone,
	}, nil
}
