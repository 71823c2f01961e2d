package impl

import (
	"context"
	"testing"
	"time"

	"bimeh/internal/domain/entity"
	domainerrors "bimeh/internal/domain/errors"
	"bimeh/internal/domain/repository"
	mockRepo "bimeh/internal/mocks/repository"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPersonServiceForTest() (*personService, *mockRepo.MockTransactionManager, *mockRepo.MockPersonRepository) {
	txManager := new(mockRepo.MockTransactionManager)
	personRepo := new(mockRepo.MockPersonRepository)
	service := NewPersonService(PersonServiceParams{
		TxManager:  txManager,
		PersonRepo: personRepo,
		Logger:     testLogger(),
	}).(*personService)

	return service, txManager, personRepo
}

func validPersonInput() *usecase.PersonInput {
	return &usecase.PersonInput{
		FirstName:    "زهرا",
		LastName:     "احمدی",
		NationalCode: validNationalID,
		BirthDate:    time.Date(2015, 3, 21, 0, 0, 0, 0, time.UTC),
		Relation:     entity.RelationChild,
	}
}

func TestPersonService_Create_Success(t *testing.T) {
	service, txManager, _ := newPersonServiceForTest()

	ctx := context.Background()
	userID := uuid.New()

	txPersonRepo := new(mockRepo.MockPersonRepository)
	txPersonRepo.On("ExistsByNationalCode", ctx, userID, validNationalID, uuid.Nil).Return(false, nil)
	txPersonRepo.On("Create", ctx, mock.MatchedBy(func(p *entity.Person) bool {
		return p.UserID == userID && p.Relation == entity.RelationChild
	})).Return(nil)

	factory := new(mockRepo.MockRepositoryFactory)
	factory.On("NewPersonRepository").Return(txPersonRepo)

	txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			require.NoError(t, fn(factory))
		}).
		Return(nil)

	created, err := service.Create(ctx, userID, validPersonInput())

	require.NoError(t, err)
	assert.Equal(t, userID, created.UserID)
	txPersonRepo.AssertExpectations(t)
}

func TestPersonService_Create_DuplicateNationalCode(t *testing.T) {
	service, txManager, _ := newPersonServiceForTest()

	ctx := context.Background()
	userID := uuid.New()

	txPersonRepo := new(mockRepo.MockPersonRepository)
	txPersonRepo.On("ExistsByNationalCode", ctx, userID, validNationalID, uuid.Nil).Return(true, nil)

	factory := new(mockRepo.MockRepositoryFactory)
	factory.On("NewPersonRepository").Return(txPersonRepo)

	txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			err := fn(factory)
			assert.True(t, errors.Is(err, domainerrors.ErrPersonAlreadyExists))
		}).
		Return(errors.Wrap(domainerrors.ErrPersonAlreadyExists, "national code already registered for this account"))

	_, err := service.Create(ctx, userID, validPersonInput())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPersonAlreadyExists))
	txPersonRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPersonService_Create_InvalidNationalCode(t *testing.T) {
	service, txManager, _ := newPersonServiceForTest()

	input := validPersonInput()
	input.NationalCode = "1234567890"

	_, err := service.Create(context.Background(), uuid.New(), input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidNationalID))
	txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestPersonService_Create_FutureBirthDate(t *testing.T) {
	service, _, _ := newPersonServiceForTest()

	input := validPersonInput()
	input.BirthDate = time.Now().AddDate(1, 0, 0)

	_, err := service.Create(context.Background(), uuid.New(), input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestPersonService_GetMine_OtherAccount(t *testing.T) {
	service, _, personRepo := newPersonServiceForTest()

	ctx := context.Background()
	personID := uuid.New()
	personRepo.On("FindByID", ctx, personID).
		Return(&entity.Person{ID: personID, UserID: uuid.New()}, nil)

	_, err := service.GetMine(ctx, uuid.New(), personID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPersonNotFound))
}

func TestPersonService_List_DefaultsPaging(t *testing.T) {
	service, _, personRepo := newPersonServiceForTest()

	ctx := context.Background()
	personRepo.On("List", ctx, repository.PersonFilter{Limit: 20, Offset: 0}).
		Return([]*entity.Person{}, int64(0), nil)

	out, err := service.List(ctx, &usecase.ListPersonsInput{})

	require.NoError(t, err)
	assert.Zero(t, out.Total)
	personRepo.AssertExpectations(t)
}
