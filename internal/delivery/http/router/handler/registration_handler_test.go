package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"bimeh/internal/delivery/http/middleware"
	"bimeh/internal/domain/entity"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRegistrationUsecase lets each test wire just the methods it needs.
type stubRegistrationUsecase struct {
	createFn    func(ctx context.Context, userID uuid.UUID, input *usecase.CreateRegistrationInput) (*entity.Registration, error)
	cardFn      func(ctx context.Context, userID, registrationID uuid.UUID) ([]byte, error)
	setStatusFn func(ctx context.Context, actorID, registrationID uuid.UUID, input *usecase.SetStatusInput) (*entity.Registration, error)
}

func (s *stubRegistrationUsecase) Create(ctx context.Context, userID uuid.UUID, input *usecase.CreateRegistrationInput) (*entity.Registration, error) {
	return s.createFn(ctx, userID, input)
}

func (s *stubRegistrationUsecase) ListMine(context.Context, uuid.UUID) ([]*entity.Registration, error) {
	return nil, nil
}

func (s *stubRegistrationUsecase) GetMine(context.Context, uuid.UUID, uuid.UUID) (*entity.Registration, error) {
	return nil, nil
}

func (s *stubRegistrationUsecase) Card(ctx context.Context, userID, registrationID uuid.UUID) ([]byte, error) {
	return s.cardFn(ctx, userID, registrationID)
}

func (s *stubRegistrationUsecase) List(context.Context, *usecase.ListRegistrationsInput) (*usecase.RegistrationListOutput, error) {
	return nil, nil
}

func (s *stubRegistrationUsecase) Get(context.Context, uuid.UUID) (*entity.Registration, error) {
	return nil, nil
}

func (s *stubRegistrationUsecase) SetStatus(ctx context.Context, actorID, registrationID uuid.UUID, input *usecase.SetStatusInput) (*entity.Registration, error) {
	return s.setStatusFn(ctx, actorID, registrationID, input)
}

func newRegistrationHandlerForTest(uc usecase.RegistrationUsecase) *RegistrationHandler {
	return &RegistrationHandler{
		registrationUC: uc,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRegistrationHandler_Create(t *testing.T) {
	userID := uuid.New()
	planID := uuid.New()
	schoolID := uuid.New()

	uc := &stubRegistrationUsecase{
		createFn: func(_ context.Context, gotUserID uuid.UUID, input *usecase.CreateRegistrationInput) (*entity.Registration, error) {
			assert.Equal(t, userID, gotUserID)
			assert.Equal(t, planID, input.PlanID)
			assert.Equal(t, schoolID, input.SchoolID)

			return &entity.Registration{ID: uuid.New(), Status: entity.StatusPending}, nil
		},
	}

	body := `{"plan_id":"` + planID.String() + `","school_id":"` + schoolID.String() + `"}`
	c, rec := newJSONContext(t, http.MethodPost, "/insurance/register", body)
	c.Set(middleware.ContextKeyUserID, userID)

	err := newRegistrationHandlerForTest(uc).Create(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "pending")
}

func TestRegistrationHandler_Create_MissingPlan(t *testing.T) {
	c, rec := newJSONContext(t, http.MethodPost, "/insurance/register",
		`{"school_id":"`+uuid.NewString()+`"}`)
	c.Set(middleware.ContextKeyUserID, uuid.New())

	err := newRegistrationHandlerForTest(&stubRegistrationUsecase{}).Create(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestRegistrationHandler_SetStatus_InvalidStatus(t *testing.T) {
	c, rec := newJSONContext(t, http.MethodPut, "/admin/registrations/x/status",
		`{"status":"frozen"}`)
	c.Set(middleware.ContextKeyUserID, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := newRegistrationHandlerForTest(&stubRegistrationUsecase{}).SetStatus(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_STATUS")
}

func TestRegistrationHandler_SetStatus_PassesStatusThrough(t *testing.T) {
	registrationID := uuid.New()

	uc := &stubRegistrationUsecase{
		setStatusFn: func(_ context.Context, _, gotID uuid.UUID, input *usecase.SetStatusInput) (*entity.Registration, error) {
			assert.Equal(t, registrationID, gotID)
			assert.Equal(t, entity.StatusApproved, input.Status)
			assert.Equal(t, "docs checked", input.Note)

			return &entity.Registration{ID: gotID, Status: input.Status}, nil
		},
	}

	c, rec := newJSONContext(t, http.MethodPut, "/admin/registrations/x/status",
		`{"status":"approved","note":"docs checked"}`)
	c.Set(middleware.ContextKeyUserID, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(registrationID.String())

	err := newRegistrationHandlerForTest(uc).SetStatus(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), entity.StatusApproved.Label())
}

func TestRegistrationHandler_Card_ServesPNG(t *testing.T) {
	registrationID := uuid.New()
	pngBytes := []byte{0x89, 'P', 'N', 'G'}

	uc := &stubRegistrationUsecase{
		cardFn: func(_ context.Context, _, gotID uuid.UUID) ([]byte, error) {
			assert.Equal(t, registrationID, gotID)

			return pngBytes, nil
		},
	}

	c, rec := newJSONContext(t, http.MethodGet, "/insurance/registrations/x/card", "")
	c.Set(middleware.ContextKeyUserID, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(registrationID.String())

	err := newRegistrationHandlerForTest(uc).Card(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, pngBytes, rec.Body.Bytes())
}
