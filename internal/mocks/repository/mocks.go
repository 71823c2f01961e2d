// Package repository provides hand-written testify doubles for the
// domain repository interfaces, used by the usecase tests.
package repository

import (
	"context"
	"time"

	"bimeh/internal/cascade"
	"bimeh/internal/domain/entity"
	"bimeh/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTransactionManager implements repository.TransactionManager.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)

	return args.Error(0)
}

// MockRepositoryFactory implements repository.RepositoryFactory.
type MockRepositoryFactory struct {
	mock.Mock
}

func (m *MockRepositoryFactory) NewUserRepository() repository.UserRepository {
	return m.Called().Get(0).(repository.UserRepository)
}

func (m *MockRepositoryFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return m.Called().Get(0).(repository.RefreshTokenRepository)
}

func (m *MockRepositoryFactory) NewLocationRepository() repository.LocationRepository {
	return m.Called().Get(0).(repository.LocationRepository)
}

func (m *MockRepositoryFactory) NewPlanRepository() repository.PlanRepository {
	return m.Called().Get(0).(repository.PlanRepository)
}

func (m *MockRepositoryFactory) NewRegistrationRepository() repository.RegistrationRepository {
	return m.Called().Get(0).(repository.RegistrationRepository)
}

func (m *MockRepositoryFactory) NewPersonRepository() repository.PersonRepository {
	return m.Called().Get(0).(repository.PersonRepository)
}

func (m *MockRepositoryFactory) NewDocumentRepository() repository.DocumentRepository {
	return m.Called().Get(0).(repository.DocumentRepository)
}

// MockUserRepository implements repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByNationalID(ctx context.Context, nationalID string) (*entity.User, error) {
	args := m.Called(ctx, nationalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, int64, error) {
	args := m.Called(ctx, filter)
	var users []*entity.User
	if args.Get(0) != nil {
		users = args.Get(0).([]*entity.User)
	}

	return users, args.Get(1).(int64), args.Error(2)
}

// MockRefreshTokenRepository implements repository.RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *MockRefreshTokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockRefreshTokenRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteOldest(ctx context.Context, userID uuid.UUID, keep int) error {
	return m.Called(ctx, userID, keep).Error(0)
}

// MockLocationRepository implements repository.LocationRepository.
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Children(ctx context.Context, tier cascade.Tier, parentID uuid.UUID) ([]*entity.LocationNode, error) {
	args := m.Called(ctx, tier, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.LocationNode), args.Error(1)
}

func (m *MockLocationRepository) FindNode(ctx context.Context, tier cascade.Tier, id uuid.UUID) (*entity.LocationNode, error) {
	args := m.Called(ctx, tier, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.LocationNode), args.Error(1)
}

func (m *MockLocationRepository) CreateNode(ctx context.Context, node *entity.LocationNode) error {
	return m.Called(ctx, node).Error(0)
}

func (m *MockLocationRepository) UpdateNode(ctx context.Context, node *entity.LocationNode) error {
	return m.Called(ctx, node).Error(0)
}

func (m *MockLocationRepository) DeleteNode(ctx context.Context, tier cascade.Tier, id uuid.UUID) error {
	return m.Called(ctx, tier, id).Error(0)
}

func (m *MockLocationRepository) HasChildren(ctx context.Context, tier cascade.Tier, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tier, id)

	return args.Bool(0), args.Error(1)
}

func (m *MockLocationRepository) Schools(ctx context.Context, filter repository.SchoolFilter) ([]*entity.School, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.School), args.Error(1)
}

func (m *MockLocationRepository) FindSchool(ctx context.Context, id uuid.UUID) (*entity.School, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.School), args.Error(1)
}

func (m *MockLocationRepository) CreateSchool(ctx context.Context, school *entity.School) error {
	return m.Called(ctx, school).Error(0)
}

func (m *MockLocationRepository) UpdateSchool(ctx context.Context, school *entity.School) error {
	return m.Called(ctx, school).Error(0)
}

func (m *MockLocationRepository) DeleteSchool(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLocationRepository) Chain(ctx context.Context, schoolID uuid.UUID) (*entity.LocationChain, error) {
	args := m.Called(ctx, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.LocationChain), args.Error(1)
}

// MockPlanRepository implements repository.PlanRepository.
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) List(ctx context.Context, onlyActive bool) ([]*entity.InsurancePlan, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.InsurancePlan), args.Error(1)
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.InsurancePlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.InsurancePlan), args.Error(1)
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *entity.InsurancePlan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *MockPlanRepository) Update(ctx context.Context, plan *entity.InsurancePlan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *MockPlanRepository) CreateCoverage(ctx context.Context, coverage *entity.PlanCoverage) error {
	return m.Called(ctx, coverage).Error(0)
}

func (m *MockPlanRepository) UpdateCoverage(ctx context.Context, coverage *entity.PlanCoverage) error {
	return m.Called(ctx, coverage).Error(0)
}

func (m *MockPlanRepository) DeleteCoverage(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockRegistrationRepository implements repository.RegistrationRepository.
type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) Create(ctx context.Context, registration *entity.Registration) error {
	return m.Called(ctx, registration).Error(0)
}

func (m *MockRegistrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Registration, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) List(ctx context.Context, filter repository.RegistrationFilter) ([]*entity.Registration, int64, error) {
	args := m.Called(ctx, filter)
	var registrations []*entity.Registration
	if args.Get(0) != nil {
		registrations = args.Get(0).([]*entity.Registration)
	}

	return registrations, args.Get(1).(int64), args.Error(2)
}

func (m *MockRegistrationRepository) Update(ctx context.Context, registration *entity.Registration) error {
	return m.Called(ctx, registration).Error(0)
}

func (m *MockRegistrationRepository) HasOngoing(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)

	return args.Bool(0), args.Error(1)
}

// MockPersonRepository implements repository.PersonRepository.
type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Person, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Person), args.Error(1)
}

func (m *MockPersonRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Person), args.Error(1)
}

func (m *MockPersonRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Person, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Person), args.Error(1)
}

func (m *MockPersonRepository) Create(ctx context.Context, person *entity.Person) error {
	return m.Called(ctx, person).Error(0)
}

func (m *MockPersonRepository) Update(ctx context.Context, person *entity.Person) error {
	return m.Called(ctx, person).Error(0)
}

func (m *MockPersonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPersonRepository) ExistsByNationalCode(ctx context.Context, userID uuid.UUID, nationalCode string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, nationalCode, excludeID)

	return args.Bool(0), args.Error(1)
}

func (m *MockPersonRepository) List(ctx context.Context, filter repository.PersonFilter) ([]*entity.Person, int64, error) {
	args := m.Called(ctx, filter)
	var persons []*entity.Person
	if args.Get(0) != nil {
		persons = args.Get(0).([]*entity.Person)
	}

	return persons, args.Get(1).(int64), args.Error(2)
}

// MockDocumentRepository implements repository.DocumentRepository.
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, document *entity.Document) error {
	return m.Called(ctx, document).Error(0)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Document, int64, error) {
	args := m.Called(ctx, filter)
	var documents []*entity.Document
	if args.Get(0) != nil {
		documents = args.Get(0).([]*entity.Document)
	}

	return documents, args.Get(1).(int64), args.Error(2)
}

func (m *MockDocumentRepository) Update(ctx context.Context, document *entity.Document) error {
	return m.Called(ctx, document).Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockStatsRepository implements repository.StatsRepository.
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) CountUsers(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockStatsRepository) CountUsersCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountUsersWithRegistrations(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountUsersWithPersons(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountPersons(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) PersonRelationCounts(ctx context.Context, userID uuid.UUID) (map[entity.Relation]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(map[entity.Relation]int64), args.Error(1)
}

func (m *MockStatsRepository) PersonBirthDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockStatsRepository) CountRegistrations(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) RegistrationStatusCounts(ctx context.Context, userID uuid.UUID) (map[entity.RegistrationStatus]int64, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(map[entity.RegistrationStatus]int64), args.Error(1)
}

func (m *MockStatsRepository) RegistrationsByPlan(ctx context.Context) ([]repository.PlanRegistrationCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]repository.PlanRegistrationCount), args.Error(1)
}

func (m *MockStatsRepository) RegistrationsByMonth(ctx context.Context, months int) ([]repository.MonthCount, error) {
	args := m.Called(ctx, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]repository.MonthCount), args.Error(1)
}

func (m *MockStatsRepository) CountRegistrationsSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) CountSchools(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsRepository) SchoolTypeCounts(ctx context.Context) (map[entity.SchoolType]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(map[entity.SchoolType]int64), args.Error(1)
}

func (m *MockStatsRepository) SchoolsByState(ctx context.Context, limit int) ([]repository.StateSchoolCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]repository.StateSchoolCount), args.Error(1)
}

func (m *MockStatsRepository) TopSchools(ctx context.Context, limit int) ([]repository.SchoolRegistrationCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]repository.SchoolRegistrationCount), args.Error(1)
}

func (m *MockStatsRepository) CountPlans(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockStatsRepository) PlanTypeCounts(ctx context.Context) (map[entity.PlanType]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(map[entity.PlanType]int64), args.Error(1)
}

func (m *MockStatsRepository) AveragePremium(ctx context.Context) (float64, error) {
	args := m.Called(ctx)

	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStatsRepository) CountDocuments(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}
