package impl

import (
	"context"
	"testing"
	"time"

	"bimeh/internal/domain/entity"
	domainerrors "bimeh/internal/domain/errors"
	"bimeh/internal/domain/repository"
	domainservice "bimeh/internal/domain/service"
	mockRepo "bimeh/internal/mocks/repository"
	mockService "bimeh/internal/mocks/service"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type registrationServiceMocks struct {
	txManager        *mockRepo.MockTransactionManager
	registrationRepo *mockRepo.MockRegistrationRepository
	planRepo         *mockRepo.MockPlanRepository
	locationRepo     *mockRepo.MockLocationRepository
	personRepo       *mockRepo.MockPersonRepository
	publisher        *mockService.MockEventPublisher
	qrcodeService    *mockService.MockQRCodeService
}

func newRegistrationServiceForTest() (*registrationService, *registrationServiceMocks) {
	m := &registrationServiceMocks{
		txManager:        new(mockRepo.MockTransactionManager),
		registrationRepo: new(mockRepo.MockRegistrationRepository),
		planRepo:         new(mockRepo.MockPlanRepository),
		locationRepo:     new(mockRepo.MockLocationRepository),
		personRepo:       new(mockRepo.MockPersonRepository),
		publisher:        new(mockService.MockEventPublisher),
		qrcodeService:    new(mockService.MockQRCodeService),
	}
	service := NewRegistrationService(RegistrationServiceParams{
		TxManager:        m.txManager,
		RegistrationRepo: m.registrationRepo,
		PlanRepo:         m.planRepo,
		LocationRepo:     m.locationRepo,
		PersonRepo:       m.personRepo,
		Publisher:        m.publisher,
		QRCodeService:    m.qrcodeService,
		Logger:           testLogger(),
	}).(*registrationService)

	return service, m
}

func TestRegistrationService_Create_Success(t *testing.T) {
	service, m := newRegistrationServiceForTest()

	ctx := context.Background()
	userID := uuid.New()
	planID := uuid.New()
	schoolID := uuid.New()
	personID := uuid.New()

	txRegistrationRepo := new(mockRepo.MockRegistrationRepository)
	txPlanRepo := new(mockRepo.MockPlanRepository)
	txLocationRepo := new(mockRepo.MockLocationRepository)
	txPersonRepo := new(mockRepo.MockPersonRepository)

	txRegistrationRepo.On("HasOngoing", ctx, userID).Return(false, nil)
	txPlanRepo.On("FindByID", ctx, planID).Return(&entity.InsurancePlan{ID: planID, IsActive: true}, nil)
	txLocationRepo.On("FindSchool", ctx, schoolID).Return(&entity.School{ID: schoolID}, nil)
	txPersonRepo.On("FindByIDs", ctx, []uuid.UUID{personID}).
		Return([]*entity.Person{{ID: personID, UserID: userID}}, nil)
	txRegistrationRepo.On("Create", ctx, mock.MatchedBy(func(r *entity.Registration) bool {
		return r.UserID == userID && r.Status == entity.StatusPending
	})).Return(nil)

	factory := new(mockRepo.MockRepositoryFactory)
	factory.On("NewRegistrationRepository").Return(txRegistrationRepo)
	factory.On("NewPlanRepository").Return(txPlanRepo)
	factory.On("NewLocationRepository").Return(txLocationRepo)
	factory.On("NewPersonRepository").Return(txPersonRepo)

	m.txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			require.NoError(t, fn(factory))
		}).
		Return(nil)

	created, err := service.Create(ctx, userID, &usecase.CreateRegistrationInput{
		PlanID:    planID,
		SchoolID:  schoolID,
		PersonIDs: []uuid.UUID{personID},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, created.Status)
	txRegistrationRepo.AssertExpectations(t)
}

func TestRegistrationService_Create_OngoingGuard(t *testing.T) {
	service, m := newRegistrationServiceForTest()

	ctx := context.Background()
	userID := uuid.New()

	txRegistrationRepo := new(mockRepo.MockRegistrationRepository)
	txRegistrationRepo.On("HasOngoing", ctx, userID).Return(true, nil)

	factory := new(mockRepo.MockRepositoryFactory)
	factory.On("NewRegistrationRepository").Return(txRegistrationRepo)
	factory.On("NewPlanRepository").Return(new(mockRepo.MockPlanRepository))
	factory.On("NewLocationRepository").Return(new(mockRepo.MockLocationRepository))
	factory.On("NewPersonRepository").Return(new(mockRepo.MockPersonRepository))

	m.txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			err := fn(factory)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrDuplicateRegistration))
		}).
		Return(errors.Wrap(domainerrors.ErrDuplicateRegistration, "account already has an ongoing registration"))

	_, err := service.Create(ctx, userID, &usecase.CreateRegistrationInput{PlanID: uuid.New(), SchoolID: uuid.New()})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateRegistration))
	txRegistrationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegistrationService_Create_InactivePlan(t *testing.T) {
	service, m := newRegistrationServiceForTest()

	ctx := context.Background()
	userID := uuid.New()
	planID := uuid.New()

	txRegistrationRepo := new(mockRepo.MockRegistrationRepository)
	txPlanRepo := new(mockRepo.MockPlanRepository)
	txRegistrationRepo.On("HasOngoing", ctx, userID).Return(false, nil)
	txPlanRepo.On("FindByID", ctx, planID).Return(&entity.InsurancePlan{ID: planID, IsActive: false}, nil)

	factory := new(mockRepo.MockRepositoryFactory)
	factory.On("NewRegistrationRepository").Return(txRegistrationRepo)
	factory.On("NewPlanRepository").Return(txPlanRepo)
	factory.On("NewLocationRepository").Return(new(mockRepo.MockLocationRepository))
	factory.On("NewPersonRepository").Return(new(mockRepo.MockPersonRepository))

	m.txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			err := fn(factory)
			assert.True(t, errors.Is(err, domainerrors.ErrPlanInactive))
		}).
		Return(errors.Wrap(domainerrors.ErrPlanInactive, "plan no longer accepts registrations"))

	_, err := service.Create(ctx, userID, &usecase.CreateRegistrationInput{PlanID: planID, SchoolID: uuid.New()})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPlanInactive))
}

func TestRegistrationService_GetMine_OtherAccount(t *testing.T) {
	service, m := newRegistrationServiceForTest()

	ctx := context.Background()
	registrationID := uuid.New()
	m.registrationRepo.On("FindByID", ctx, registrationID).
		Return(&entity.Registration{ID: registrationID, UserID: uuid.New()}, nil)

	_, err := service.GetMine(ctx, uuid.New(), registrationID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRegistrationNotFound))
}

func TestRegistrationService_SetStatus_ForwardPath(t *testing.T) {
	service, m := newRegistrationServiceForTest()

	ctx := context.Background()
	actorID := uuid.New()
	registrationID := uuid.New()
	registration := &entity.Registration{ID: registrationID, UserID: uuid.New(), Status: entity.StatusPending}

	txRegistrationRepo := new(mockRepo.MockRegistrationRepository)
	txRegistrationRepo.On("FindByID", ctx, registrationID).Return(registration, nil)
	txRegistrationRepo.On("Update", ctx, mock.MatchedBy(func(r *entity.Registration) bool {
		return r.Status == entity.StatusApproved
	})).Return(nil)

	factory := new(mockRepo.MockRepositoryFactory)
	factory.On("NewRegistrationRepository").Return(txRegistrationRepo)

	m.txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			require.NoError(t, fn(factory))
		}).
		Return(nil)

	reread := &entity.Registration{ID: registrationID, UserID: registration.UserID, Status: entity.StatusApproved}
	m.registrationRepo.On("FindByID", ctx, registrationID).Return(reread, nil)
	m.publisher.On("PublishStatusTransition", ctx, mock.MatchedBy(func(e *domainservice.StatusTransitionEvent) bool {
		return e.ToStatus == "approved" && !e.Irregular
	})).Return(nil)

	updated, err := service.SetStatus(ctx, actorID, registrationID, &usecase.SetStatusInput{Status: entity.StatusApproved})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, updated.Status)
	m.publisher.AssertExpectations(t)
}

func TestRegistrationService_SetStatus_OverrideFlaggedIrregular(t *testing.T) {
	service, m := newRegistrationServiceForTest()

	ctx := context.Background()
	registrationID := uuid.New()
	registration := &entity.Registration{ID: registrationID, UserID: uuid.New(), Status: entity.StatusRejected}

	txRegistrationRepo := new(mockRepo.MockRegistrationRepository)
	txRegistrationRepo.On("FindByID", ctx, registrationID).Return(registration, nil)
	txRegistrationRepo.On("Update", ctx, mock.AnythingOfType("*entity.Registration")).Return(nil)

	factory := new(mockRepo.MockRepositoryFactory)
	factory.On("NewRegistrationRepository").Return(txRegistrationRepo)

	m.txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			require.NoError(t, fn(factory))
		}).
		Return(nil)

	reread := &entity.Registration{ID: registrationID, UserID: registration.UserID, Status: entity.StatusActive}
	m.registrationRepo.On("FindByID", ctx, registrationID).Return(reread, nil)
	m.publisher.On("PublishStatusTransition", ctx, mock.MatchedBy(func(e *domainservice.StatusTransitionEvent) bool {
		return e.FromStatus == "rejected" && e.ToStatus == "active" && e.Irregular
	})).Return(nil)

	_, err := service.SetStatus(ctx, uuid.New(), registrationID, &usecase.SetStatusInput{Status: entity.StatusActive})

	require.NoError(t, err)
	m.publisher.AssertExpectations(t)
}

func TestRegistrationService_SetStatus_SameStatusRejected(t *testing.T) {
	service, m := newRegistrationServiceForTest()

	ctx := context.Background()
	registrationID := uuid.New()
	registration := &entity.Registration{ID: registrationID, Status: entity.StatusPending}

	txRegistrationRepo := new(mockRepo.MockRegistrationRepository)
	txRegistrationRepo.On("FindByID", ctx, registrationID).Return(registration, nil)

	factory := new(mockRepo.MockRepositoryFactory)
	factory.On("NewRegistrationRepository").Return(txRegistrationRepo)

	m.txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			err := fn(factory)
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidStatusTransition))
		}).
		Return(errors.Wrap(domainerrors.ErrInvalidStatusTransition, "registration already in the requested status"))

	_, err := service.SetStatus(ctx, uuid.New(), registrationID, &usecase.SetStatusInput{Status: entity.StatusPending})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidStatusTransition))
	txRegistrationRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	m.publisher.AssertNotCalled(t, "PublishStatusTransition", mock.Anything, mock.Anything)
}

func TestRegistrationService_SetStatus_ActivationDefaultsDates(t *testing.T) {
	service, m := newRegistrationServiceForTest()

	ctx := context.Background()
	registrationID := uuid.New()
	registration := &entity.Registration{ID: registrationID, UserID: uuid.New(), Status: entity.StatusApproved}

	var saved *entity.Registration
	txRegistrationRepo := new(mockRepo.MockRegistrationRepository)
	txRegistrationRepo.On("FindByID", ctx, registrationID).Return(registration, nil)
	txRegistrationRepo.On("Update", ctx, mock.AnythingOfType("*entity.Registration")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*entity.Registration)
		}).
		Return(nil)

	factory := new(mockRepo.MockRepositoryFactory)
	factory.On("NewRegistrationRepository").Return(txRegistrationRepo)

	m.txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			require.NoError(t, fn(factory))
		}).
		Return(nil)

	m.registrationRepo.On("FindByID", ctx, registrationID).
		Return(&entity.Registration{ID: registrationID, Status: entity.StatusActive}, nil)
	m.publisher.On("PublishStatusTransition", ctx, mock.Anything).Return(nil)

	_, err := service.SetStatus(ctx, uuid.New(), registrationID, &usecase.SetStatusInput{Status: entity.StatusActive})

	require.NoError(t, err)
	require.NotNil(t, saved)
	require.NotNil(t, saved.StartDate)
	require.NotNil(t, saved.EndDate)
	assert.WithinDuration(t, saved.StartDate.AddDate(1, 0, 0), *saved.EndDate, time.Second)
}

func TestRegistrationService_Card_RequiresActive(t *testing.T) {
	service, m := newRegistrationServiceForTest()

	ctx := context.Background()
	userID := uuid.New()
	registrationID := uuid.New()
	m.registrationRepo.On("FindByID", ctx, registrationID).
		Return(&entity.Registration{ID: registrationID, UserID: userID, Status: entity.StatusPending}, nil)

	_, err := service.Card(ctx, userID, registrationID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRegistrationNotActive))
	m.qrcodeService.AssertNotCalled(t, "GenerateCardQR", mock.Anything)
}

func TestRegistrationService_Card_Success(t *testing.T) {
	service, m := newRegistrationServiceForTest()

	ctx := context.Background()
	userID := uuid.New()
	registrationID := uuid.New()
	m.registrationRepo.On("FindByID", ctx, registrationID).
		Return(&entity.Registration{ID: registrationID, UserID: userID, Status: entity.StatusActive}, nil)
	m.qrcodeService.On("GenerateCardQR", registrationID).Return([]byte{0x89, 0x50}, nil)

	png, err := service.Card(ctx, userID, registrationID)

	require.NoError(t, err)
	assert.NotEmpty(t, png)
}
