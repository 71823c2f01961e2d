package impl

import (
	"context"
	"testing"
	"time"

	"bimeh/internal/domain/entity"
	"bimeh/internal/domain/repository"
	mockRepo "bimeh/internal/mocks/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStatisticsServiceForTest() (*statisticsService, *mockRepo.MockStatsRepository) {
	statsRepo := new(mockRepo.MockStatsRepository)
	service := NewStatisticsService(StatisticsServiceParams{
		StatsRepo: statsRepo,
		Logger:    testLogger(),
	}).(*statisticsService)

	return service, statsRepo
}

func TestStatisticsService_Overview(t *testing.T) {
	service, statsRepo := newStatisticsServiceForTest()

	ctx := context.Background()
	statsRepo.On("CountUsers", ctx).Return(int64(120), int64(3), nil)
	statsRepo.On("CountPersons", ctx, uuid.Nil).Return(int64(310), nil)
	statsRepo.On("CountRegistrations", ctx, uuid.Nil).Return(int64(95), nil)
	statsRepo.On("RegistrationStatusCounts", ctx, uuid.Nil).Return(map[entity.RegistrationStatus]int64{
		entity.StatusActive:  40,
		entity.StatusPending: 12,
	}, nil)
	statsRepo.On("CountSchools", ctx).Return(int64(18), nil)
	statsRepo.On("CountPlans", ctx).Return(int64(4), int64(3), nil)
	statsRepo.On("CountDocuments", ctx).Return(int64(200), int64(150), nil)

	overview, err := service.Overview(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(120), overview.TotalUsers)
	assert.Equal(t, int64(40), overview.ActiveRegistrations)
	assert.Equal(t, int64(12), overview.PendingRegistrations)
	assert.Equal(t, int64(150), overview.VerifiedDocuments)
}

func TestStatisticsService_Persons_AveragePerUser(t *testing.T) {
	service, statsRepo := newStatisticsServiceForTest()

	ctx := context.Background()
	statsRepo.On("CountPersons", ctx, uuid.Nil).Return(int64(9), nil)
	statsRepo.On("PersonRelationCounts", ctx, uuid.Nil).Return(map[entity.Relation]int64{
		entity.RelationChild: 6,
	}, nil)
	statsRepo.On("PersonBirthDates", ctx, uuid.Nil).Return([]time.Time{}, nil)
	statsRepo.On("CountUsersWithPersons", ctx).Return(int64(3), nil)

	stats, err := service.Persons(ctx)

	require.NoError(t, err)
	assert.InDelta(t, 3.0, stats.AveragePerUser, 0.001)
}

func TestStatisticsService_Users(t *testing.T) {
	service, statsRepo := newStatisticsServiceForTest()

	ctx := context.Background()
	statsRepo.On("CountUsers", ctx).Return(int64(100), int64(2), nil)
	statsRepo.On("CountUsersWithRegistrations", ctx).Return(int64(60), nil)
	statsRepo.On("CountUsersWithPersons", ctx).Return(int64(55), nil)
	statsRepo.On("CountUsersCreatedSince", ctx, mock.AnythingOfType("time.Time")).Return(int64(7), nil)

	stats, err := service.Users(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Admins)
	assert.Equal(t, 30, stats.RecentDays)
	assert.Equal(t, int64(7), stats.RecentSignups)
}

func TestStatisticsService_Registrations_Window(t *testing.T) {
	service, statsRepo := newStatisticsServiceForTest()

	ctx := context.Background()
	statsRepo.On("CountRegistrations", ctx, uuid.Nil).Return(int64(10), nil)
	statsRepo.On("RegistrationStatusCounts", ctx, uuid.Nil).Return(map[entity.RegistrationStatus]int64{}, nil)
	statsRepo.On("RegistrationsByPlan", ctx).Return([]repository.PlanRegistrationCount{}, nil)
	statsRepo.On("RegistrationsByMonth", ctx, 6).Return([]repository.MonthCount{}, nil)
	statsRepo.On("CountRegistrationsSince", ctx, mock.AnythingOfType("time.Time")).Return(int64(4), nil)

	stats, err := service.Registrations(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Recent)
	statsRepo.AssertCalled(t, "RegistrationsByMonth", ctx, 6)
}

func TestBucketAges(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	birthDates := []time.Time{
		time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), // 5
		time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), // 16
		time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), // 36
		time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC), // 66
	}

	buckets := bucketAges(birthDates, now)

	require.Len(t, buckets, 6)
	assert.Equal(t, int64(1), buckets[0].Count) // 0-10
	assert.Equal(t, int64(1), buckets[1].Count) // 11-20
	assert.Equal(t, int64(0), buckets[2].Count) // 21-30
	assert.Equal(t, int64(1), buckets[3].Count) // 31-40
	assert.Equal(t, int64(1), buckets[5].Count) // 51+
}
