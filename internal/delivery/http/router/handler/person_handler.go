package handler

import (
	"log/slog"
	"net/http"
	"time"

	"bimeh/internal/delivery/http/response"
	"bimeh/internal/domain/entity"
	"bimeh/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// PersonHandlerParams holds dependencies for PersonHandler, injected by Fx.
type PersonHandlerParams struct {
	fx.In

	PersonUC usecase.PersonUsecase
	Logger   *slog.Logger
}

// PersonHandler manages the covered persons attached to an account.
type PersonHandler struct {
	personUC usecase.PersonUsecase
	logger   *slog.Logger
}

// NewPersonHandler is the constructor for PersonHandler.
func NewPersonHandler(params PersonHandlerParams) *PersonHandler {
	return &PersonHandler{
		personUC: params.PersonUC,
		logger:   params.Logger,
	}
}

// PersonRequest represents the request body for creating or updating a
// covered person. BirthDate uses "2006-01-02".
type PersonRequest struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	NationalCode string `json:"national_code" validate:"required,len=10"`
	BirthDate    string `json:"birth_date" validate:"required"`
	Relation     string `json:"relation" validate:"required"`
}

// ListMine returns the caller's covered persons.
func (h *PersonHandler) ListMine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	persons, err := h.personUC.ListMine(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, persons, "")
}

// GetMine returns one of the caller's covered persons.
func (h *PersonHandler) GetMine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	person, err := h.personUC.GetMine(c.Request().Context(), userID, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, person, "")
}

// Create adds a covered person to the caller's account.
func (h *PersonHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	input, err := h.bindPerson(c)
	if err != nil {
		return err
	}

	person, err := h.personUC.Create(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, person, "فرد تحت پوشش با موفقیت ثبت شد")
}

// Update changes one of the caller's covered persons.
func (h *PersonHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	input, err := h.bindPerson(c)
	if err != nil {
		return err
	}

	person, err := h.personUC.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, person, "اطلاعات فرد تحت پوشش به‌روزرسانی شد")
}

// Delete removes one of the caller's covered persons.
func (h *PersonHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.personUC.Delete(c.Request().Context(), userID, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "فرد تحت پوشش حذف شد")
}

// List pages through all covered persons for the admin directory.
func (h *PersonHandler) List(c echo.Context) error {
	userID, ok := queryUUID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "INVALID_FILTER", "شناسه کاربر نامعتبر است")
	}

	relation := entity.Relation(c.QueryParam("relation"))
	if relation != "" && !relation.IsValid() {
		return response.BadRequest(c, "INVALID_FILTER", "نسبت نامعتبر است")
	}

	output, err := h.personUC.List(c.Request().Context(), &usecase.ListPersonsInput{
		UserID:   userID,
		Relation: relation,
		Search:   c.QueryParam("search"),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"persons": output.Persons,
		"total":   output.Total,
	}, "")
}

func (h *PersonHandler) bindPerson(c echo.Context) (*usecase.PersonInput, error) {
	var req PersonRequest
	if err := c.Bind(&req); err != nil {
		return nil, response.BindingError(c, "INVALID_INPUT", "اطلاعات فرد نامعتبر است")
	}
	if err := c.Validate(&req); err != nil {
		return nil, response.BadRequest(c, "VALIDATION_ERROR", "اطلاعات فرد ناقص است")
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, response.BadRequest(c, "INVALID_BIRTH_DATE", "تاریخ تولد نامعتبر است")
	}

	return &usecase.PersonInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		NationalCode: req.NationalCode,
		BirthDate:    birthDate,
		Relation:     entity.Relation(req.Relation),
	}, nil
}
