package impl

import (
	"context"
	"testing"

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

func newPlanServiceForTest() (*planService, *mockRepo.MockTransactionManager, *mockRepo.MockPlanRepository) {
	txManager := new(mockRepo.MockTransactionManager)
	planRepo := new(mockRepo.MockPlanRepository)
	service := NewPlanService(PlanServiceParams{
		TxManager: txManager,
		PlanRepo:  planRepo,
		Logger:    testLogger(),
	}).(*planService)

	return service, txManager, planRepo
}

func TestPlanService_ListPlans_OnlyActive(t *testing.T) {
	service, _, planRepo := newPlanServiceForTest()

	ctx := context.Background()
	planRepo.On("List", ctx, true).Return([]*entity.InsurancePlan{{ID: uuid.New()}}, nil)

	plans, err := service.ListPlans(ctx)

	require.NoError(t, err)
	assert.Len(t, plans, 1)
	planRepo.AssertExpectations(t)
}

func TestPlanService_ListCoverages_FlattensAcrossPlans(t *testing.T) {
	service, _, planRepo := newPlanServiceForTest()

	ctx := context.Background()
	dentalID := uuid.New()
	outpatientID := uuid.New()
	drugID := uuid.New()
	planRepo.On("List", ctx, false).Return([]*entity.InsurancePlan{
		{ID: uuid.New(), Coverages: []entity.PlanCoverage{
			{ID: dentalID, CoverageType: entity.CoverageDental},
			{ID: outpatientID, CoverageType: entity.CoverageOutpatient},
		}},
		{ID: uuid.New(), IsActive: true, Coverages: []entity.PlanCoverage{
			{ID: drugID, CoverageType: entity.CoverageMedication},
		}},
	}, nil)

	coverages, err := service.ListCoverages(ctx)

	require.NoError(t, err)
	require.Len(t, coverages, 3)
	assert.Equal(t, dentalID, coverages[0].ID)
	assert.Equal(t, outpatientID, coverages[1].ID)
	assert.Equal(t, drugID, coverages[2].ID)
	planRepo.AssertExpectations(t)
}

func TestPlanService_CreatePlan_DefaultsActive(t *testing.T) {
	service, _, planRepo := newPlanServiceForTest()

	ctx := context.Background()
	planRepo.On("Create", ctx, mock.MatchedBy(func(p *entity.InsurancePlan) bool {
		return p.IsActive && p.Name == "طرح طلایی"
	})).Return(nil)

	created, err := service.CreatePlan(ctx, &usecase.PlanInput{
		Name:           "طرح طلایی",
		PlanType:       entity.PlanPremium,
		MonthlyPremium: 500000,
	})

	require.NoError(t, err)
	assert.True(t, created.IsActive)
}

func TestPlanService_CreatePlan_NegativePremium(t *testing.T) {
	service, _, planRepo := newPlanServiceForTest()

	_, err := service.CreatePlan(context.Background(), &usecase.PlanInput{
		Name:           "طرح",
		PlanType:       entity.PlanPremium,
		MonthlyPremium: -1,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	planRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPlanService_CreateCoverage_PercentageBounds(t *testing.T) {
	service, _, planRepo := newPlanServiceForTest()

	for _, percentage := range []int{-1, 101} {
		_, err := service.CreateCoverage(context.Background(), &usecase.CoverageInput{
			PlanID:             uuid.New(),
			CoverageType:       entity.CoverageDental,
			Title:              "دندانپزشکی",
			CoveragePercentage: percentage,
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	}
	planRepo.AssertNotCalled(t, "CreateCoverage", mock.Anything, mock.Anything)
}

func TestPlanService_CreateCoverage_PercentageEdges(t *testing.T) {
	service, _, planRepo := newPlanServiceForTest()

	ctx := context.Background()
	planRepo.On("CreateCoverage", ctx, mock.AnythingOfType("*entity.PlanCoverage")).Return(nil).Twice()

	for _, percentage := range []int{0, 100} {
		_, err := service.CreateCoverage(ctx, &usecase.CoverageInput{
			PlanID:             uuid.New(),
			CoverageType:       entity.CoverageDental,
			Title:              "دندانپزشکی",
			CoveragePercentage: percentage,
		})

		require.NoError(t, err)
	}
	planRepo.AssertExpectations(t)
}

func TestPlanService_DeactivatePlan(t *testing.T) {
	service, txManager, _ := newPlanServiceForTest()

	ctx := context.Background()
	planID := uuid.New()

	txPlanRepo := new(mockRepo.MockPlanRepository)
	txPlanRepo.On("FindByID", ctx, planID).Return(&entity.InsurancePlan{ID: planID, IsActive: true}, nil)
	txPlanRepo.On("Update", ctx, mock.MatchedBy(func(p *entity.InsurancePlan) bool {
		return !p.IsActive
	})).Return(nil)

	factory := new(mockRepo.MockRepositoryFactory)
	factory.On("NewPlanRepository").Return(txPlanRepo)

	txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			require.NoError(t, fn(factory))
		}).
		Return(nil)

	err := service.DeactivatePlan(ctx, planID)

	require.NoError(t, err)
	txPlanRepo.AssertExpectations(t)
}

func TestPlanService_GetPlan_NotFound(t *testing.T) {
	service, _, planRepo := newPlanServiceForTest()

	ctx := context.Background()
	planID := uuid.New()
	planRepo.On("FindByID", ctx, planID).Return(nil, repository.ErrPlanNotFound)

	_, err := service.GetPlan(ctx, planID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPlanNotFound))
}
