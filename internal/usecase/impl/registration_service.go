package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "bimeh/internal/delivery/context"
	"bimeh/internal/domain/entity"
	domainerrors "bimeh/internal/domain/errors"
	"bimeh/internal/domain/repository"
	"bimeh/internal/domain/service"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// fcmTokenKey is the additional-info key under which a client may store
// its device token for push notifications.
const fcmTokenKey = "fcm_token"

// registrationService implements the RegistrationUsecase interface.
type registrationService struct {
	txManager        repository.TransactionManager
	registrationRepo repository.RegistrationRepository
	planRepo         repository.PlanRepository
	locationRepo     repository.LocationRepository
	personRepo       repository.PersonRepository
	publisher        service.EventPublisher
	notifier         service.NotificationService
	qrcodeService    service.QRCodeService
	logger           *slog.Logger
}

// RegistrationServiceParams holds dependencies for registrationService, injected by Fx.
type RegistrationServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	RegistrationRepo repository.RegistrationRepository
	PlanRepo         repository.PlanRepository
	LocationRepo     repository.LocationRepository
	PersonRepo       repository.PersonRepository
	Publisher        service.EventPublisher
	Notifier         service.NotificationService `optional:"true"`
	QRCodeService    service.QRCodeService
	Logger           *slog.Logger
}

// NewRegistrationService is the constructor for registrationService.
func NewRegistrationService(params RegistrationServiceParams) usecase.RegistrationUsecase {
	return &registrationService{
		txManager:        params.TxManager,
		registrationRepo: params.RegistrationRepo,
		planRepo:         params.PlanRepo,
		locationRepo:     params.LocationRepo,
		personRepo:       params.PersonRepo,
		publisher:        params.Publisher,
		notifier:         params.Notifier,
		qrcodeService:    params.QRCodeService,
		logger:           params.Logger,
	}
}

func (srv *registrationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create submits a new registration. Registrations always start
// pending; an account with an ongoing registration cannot open another.
func (srv *registrationService) Create(ctx context.Context, userID uuid.UUID, input *usecase.CreateRegistrationInput) (*entity.Registration, error) {
	srv.log(ctx).Info("Creating registration", slog.Any("userID", userID), slog.Any("planID", input.PlanID))

	var created *entity.Registration
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		registrationRepo := repoFactory.NewRegistrationRepository()
		planRepo := repoFactory.NewPlanRepository()
		locationRepo := repoFactory.NewLocationRepository()

		ongoing, err := registrationRepo.HasOngoing(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to check ongoing registrations")
		}
		if ongoing {
			return errors.Wrap(domainerrors.ErrDuplicateRegistration, "account already has an ongoing registration")
		}

		plan, err := planRepo.FindByID(ctx, input.PlanID)
		if err != nil {
			if errors.Is(err, repository.ErrPlanNotFound) {
				return errors.Wrap(domainerrors.ErrPlanNotFound, "plan not found")
			}

			return errors.Wrap(err, "failed to find plan")
		}
		if !plan.IsActive {
			return errors.Wrap(domainerrors.ErrPlanInactive, "plan no longer accepts registrations")
		}

		if _, err := locationRepo.FindSchool(ctx, input.SchoolID); err != nil {
			if errors.Is(err, repository.ErrSchoolNotFound) {
				return errors.Wrap(domainerrors.ErrSchoolNotFound, "school not found")
			}

			return errors.Wrap(err, "failed to find school")
		}

		if err := srv.verifyPersonOwnership(ctx, repoFactory.NewPersonRepository(), userID, input.PersonIDs); err != nil {
			return err
		}

		registration := &entity.Registration{
			UserID:           userID,
			PlanID:           input.PlanID,
			SchoolID:         input.SchoolID,
			PersonIDs:        input.PersonIDs,
			Status:           entity.StatusPending,
			RegistrationDate: time.Now(),
			AdditionalInfo:   input.AdditionalInfo,
		}
		if err := registrationRepo.Create(ctx, registration); err != nil {
			return errors.Wrap(err, "failed to create registration")
		}
		created = registration

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create registration", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration creation transaction")
	}

	srv.log(ctx).Debug("Registration created", slog.Any("registrationID", created.ID))

	return created, nil
}

// ListMine returns the caller's own registrations.
func (srv *registrationService) ListMine(ctx context.Context, userID uuid.UUID) ([]*entity.Registration, error) {
	registrations, err := srv.registrationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list registrations")
	}

	return registrations, nil
}

// GetMine returns one of the caller's own registrations.
func (srv *registrationService) GetMine(ctx context.Context, userID, registrationID uuid.UUID) (*entity.Registration, error) {
	registration, err := srv.registrationRepo.FindByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return nil, errors.Wrap(domainerrors.ErrRegistrationNotFound, "registration not found")
		}

		return nil, errors.Wrap(err, "failed to find registration")
	}
	if !registration.IsOwnedBy(userID) {
		return nil, errors.Wrap(domainerrors.ErrRegistrationNotFound, "registration belongs to another account")
	}

	return registration, nil
}

// Card renders the insurance-card QR for an active registration.
func (srv *registrationService) Card(ctx context.Context, userID, registrationID uuid.UUID) ([]byte, error) {
	registration, err := srv.GetMine(ctx, userID, registrationID)
	if err != nil {
		return nil, err
	}
	if registration.Status != entity.StatusActive {
		return nil, errors.Wrap(domainerrors.ErrRegistrationNotActive, "insurance card requires an active registration")
	}

	png, err := srv.qrcodeService.GenerateCardQR(registration.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render insurance card")
	}

	return png, nil
}

// List pages through registrations for the admin console.
func (srv *registrationService) List(ctx context.Context, input *usecase.ListRegistrationsInput) (*usecase.RegistrationListOutput, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown registration status")
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	registrations, total, err := srv.registrationRepo.List(ctx, repository.RegistrationFilter{
		UserID:   input.UserID,
		PlanID:   input.PlanID,
		SchoolID: input.SchoolID,
		Status:   input.Status,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list registrations")
	}

	return &usecase.RegistrationListOutput{Registrations: registrations, Total: total}, nil
}

// Get returns any registration for the admin console.
func (srv *registrationService) Get(ctx context.Context, registrationID uuid.UUID) (*entity.Registration, error) {
	registration, err := srv.registrationRepo.FindByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return nil, errors.Wrap(domainerrors.ErrRegistrationNotFound, "registration not found")
		}

		return nil, errors.Wrap(err, "failed to find registration")
	}

	return registration, nil
}

// SetStatus moves a registration to a new status. Moves off the
// forward path are applied anyway but flagged as irregular on the audit
// stream. The returned registration is re-read from the store after the
// write.
func (srv *registrationService) SetStatus(ctx context.Context, actorID, registrationID uuid.UUID, input *usecase.SetStatusInput) (*entity.Registration, error) {
	if !input.Status.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown registration status")
	}

	var fromStatus entity.RegistrationStatus
	var irregular bool
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		registrationRepo := repoFactory.NewRegistrationRepository()

		registration, err := registrationRepo.FindByID(ctx, registrationID)
		if err != nil {
			if errors.Is(err, repository.ErrRegistrationNotFound) {
				return errors.Wrap(domainerrors.ErrRegistrationNotFound, "registration not found")
			}

			return errors.Wrap(err, "failed to find registration")
		}

		fromStatus = registration.Status
		if input.Status == fromStatus {
			return errors.Wrap(domainerrors.ErrInvalidStatusTransition, "registration already in the requested status")
		}
		irregular = !fromStatus.CanTransition(input.Status)

		registration.Status = input.Status
		if input.StartDate != nil {
			registration.StartDate = input.StartDate
		}
		if input.EndDate != nil {
			registration.EndDate = input.EndDate
		}
		if input.Status == entity.StatusActive && registration.StartDate == nil {
			now := time.Now()
			end := now.AddDate(1, 0, 0)
			registration.StartDate = &now
			if registration.EndDate == nil {
				registration.EndDate = &end
			}
		}

		return errors.Wrap(registrationRepo.Update(ctx, registration), "failed to update registration")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to set registration status", slog.Any("registrationID", registrationID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute status transition transaction")
	}

	updated, err := srv.registrationRepo.FindByID(ctx, registrationID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to re-read registration after status change")
	}

	if irregular {
		srv.log(ctx).Warn("Irregular status transition applied",
			slog.Any("registrationID", registrationID),
			slog.Any("actorID", actorID),
			slog.String("from", fromStatus.String()),
			slog.String("to", updated.Status.String()))
	}

	srv.publishTransition(ctx, updated, actorID, fromStatus, irregular, input.Note)
	srv.notifyOwner(ctx, updated)

	return updated, nil
}

// publishTransition emits the audit event for a status change. Publish
// failures are logged, never surfaced to the admin.
func (srv *registrationService) publishTransition(ctx context.Context, registration *entity.Registration, actorID uuid.UUID, fromStatus entity.RegistrationStatus, irregular bool, note string) {
	event := &service.StatusTransitionEvent{
		RequestID:      deliverycontext.GetRequestIDFromContext(ctx),
		RegistrationID: registration.ID.String(),
		UserID:         registration.UserID.String(),
		ActorID:        actorID.String(),
		FromStatus:     fromStatus.String(),
		ToStatus:       registration.Status.String(),
		Irregular:      irregular,
		Note:           note,
		OccurredAt:     time.Now(),
	}
	if err := srv.publisher.PublishStatusTransition(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish status transition event", slog.Any("registrationID", registration.ID), slog.Any("error", err))
	}
}

// notifyOwner sends a push to the owner's device when one is registered
// under the fcm_token additional-info key.
func (srv *registrationService) notifyOwner(ctx context.Context, registration *entity.Registration) {
	if srv.notifier == nil {
		return
	}
	token, ok := registration.AdditionalInfo[fcmTokenKey].(string)
	if !ok || token == "" {
		return
	}

	err := srv.notifier.SendSingleNotification(ctx,
		token,
		"وضعیت ثبت‌نام بیمه",
		registration.Status.Label(),
		map[string]string{"registration_id": registration.ID.String(), "status": registration.Status.String()},
	)
	if err != nil {
		srv.log(ctx).Warn("Failed to push status notification", slog.Any("registrationID", registration.ID), slog.Any("error", err))
	}
}

// verifyPersonOwnership checks every referenced person exists and
// belongs to the registering account.
func (srv *registrationService) verifyPersonOwnership(ctx context.Context, personRepo repository.PersonRepository, userID uuid.UUID, personIDs []uuid.UUID) error {
	if len(personIDs) == 0 {
		return nil
	}

	persons, err := personRepo.FindByIDs(ctx, personIDs)
	if err != nil {
		return errors.Wrap(err, "failed to load covered persons")
	}
	if len(persons) != len(personIDs) {
		return errors.Wrap(domainerrors.ErrPersonNotFound, "one or more covered persons do not exist")
	}
	for _, person := range persons {
		if person.UserID != userID {
			return errors.Wrap(domainerrors.ErrPersonNotFound, "covered person belongs to another account")
		}
	}

	return nil
}
