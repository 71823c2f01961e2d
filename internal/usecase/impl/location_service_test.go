package impl

import (
	"context"
	"testing"

	"bimeh/internal/cascade"
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

func newLocationServiceForTest() (*locationService, *mockRepo.MockTransactionManager, *mockRepo.MockLocationRepository) {
	txManager := new(mockRepo.MockTransactionManager)
	locationRepo := new(mockRepo.MockLocationRepository)
	service := NewLocationService(LocationServiceParams{
		TxManager:    txManager,
		LocationRepo: locationRepo,
		Logger:       testLogger(),
	}).(*locationService)

	return service, txManager, locationRepo
}

func TestLocationService_Children_RequiresParentBelowState(t *testing.T) {
	service, _, locationRepo := newLocationServiceForTest()

	_, err := service.Children(context.Background(), cascade.TierCity, uuid.Nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	locationRepo.AssertNotCalled(t, "Children", mock.Anything, mock.Anything, mock.Anything)
}

func TestLocationService_Children_States(t *testing.T) {
	service, _, locationRepo := newLocationServiceForTest()

	ctx := context.Background()
	locationRepo.On("Children", ctx, cascade.TierState, uuid.Nil).
		Return([]*entity.LocationNode{{ID: uuid.New(), Name: "تهران"}}, nil)

	nodes, err := service.Children(ctx, cascade.TierState, uuid.Nil)

	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestLocationService_CreateNode_ParentMustExistOneTierUp(t *testing.T) {
	service, txManager, _ := newLocationServiceForTest()

	ctx := context.Background()
	parentID := uuid.New()

	txLocationRepo := new(mockRepo.MockLocationRepository)
	txLocationRepo.On("FindNode", ctx, cascade.TierState, parentID).Return(nil, repository.ErrLocationNotFound)

	factory := new(mockRepo.MockRepositoryFactory)
	factory.On("NewLocationRepository").Return(txLocationRepo)

	txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			err := fn(factory)
			assert.True(t, errors.Is(err, domainerrors.ErrLocationNotFound))
		}).
		Return(errors.Wrap(domainerrors.ErrLocationNotFound, "parent state not found"))

	_, err := service.CreateNode(ctx, cascade.TierCity, &usecase.NodeInput{ParentID: parentID, Name: "شیراز"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrLocationNotFound))
	txLocationRepo.AssertNotCalled(t, "CreateNode", mock.Anything, mock.Anything)
}

func TestLocationService_CreateNode_StateRejectsParent(t *testing.T) {
	service, txManager, _ := newLocationServiceForTest()

	_, err := service.CreateNode(context.Background(), cascade.TierState, &usecase.NodeInput{
		ParentID: uuid.New(),
		Name:     "تهران",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestLocationService_DeleteNode_GuardedByChildren(t *testing.T) {
	service, txManager, _ := newLocationServiceForTest()

	ctx := context.Background()
	nodeID := uuid.New()

	txLocationRepo := new(mockRepo.MockLocationRepository)
	txLocationRepo.On("HasChildren", ctx, cascade.TierRegion, nodeID).Return(true, nil)

	factory := new(mockRepo.MockRepositoryFactory)
	factory.On("NewLocationRepository").Return(txLocationRepo)

	txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			err := fn(factory)
			assert.True(t, errors.Is(err, domainerrors.ErrLocationHasChildren))
		}).
		Return(errors.Wrap(domainerrors.ErrLocationHasChildren, "node still has children"))

	err := service.DeleteNode(ctx, cascade.TierRegion, nodeID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrLocationHasChildren))
	txLocationRepo.AssertNotCalled(t, "DeleteNode", mock.Anything, mock.Anything, mock.Anything)
}

func TestLocationService_CreateSchool_UnknownDistrict(t *testing.T) {
	service, txManager, _ := newLocationServiceForTest()

	ctx := context.Background()
	districtID := uuid.New()

	txLocationRepo := new(mockRepo.MockLocationRepository)
	txLocationRepo.On("FindNode", ctx, cascade.TierDistrict, districtID).Return(nil, repository.ErrLocationNotFound)

	factory := new(mockRepo.MockRepositoryFactory)
	factory.On("NewLocationRepository").Return(txLocationRepo)

	txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			err := fn(factory)
			assert.True(t, errors.Is(err, domainerrors.ErrLocationNotFound))
		}).
		Return(errors.Wrap(domainerrors.ErrLocationNotFound, "district not found"))

	_, err := service.CreateSchool(ctx, &usecase.SchoolInput{
		DistrictID: districtID,
		Name:       "دبستان شهید بهشتی",
		SchoolType: entity.SchoolElementary,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrLocationNotFound))
}

func TestLocationService_SchoolChain(t *testing.T) {
	service, _, locationRepo := newLocationServiceForTest()

	ctx := context.Background()
	schoolID := uuid.New()
	chain := &entity.LocationChain{School: entity.School{ID: schoolID}}
	locationRepo.On("Chain", ctx, schoolID).Return(chain, nil)

	got, err := service.SchoolChain(ctx, schoolID)

	require.NoError(t, err)
	assert.Equal(t, schoolID, got.School.ID)
}
