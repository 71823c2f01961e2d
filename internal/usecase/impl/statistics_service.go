package impl

import (
	"context"
	"log/slog"
	"time"

	"bimeh/internal/domain/entity"
	"bimeh/internal/domain/repository"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	statsRecentDays   = 30
	statsTrendMonths  = 6
	statsRankingLimit = 10
)

// ageBuckets defines the dashboard's age distribution, in years.
var ageBuckets = []struct {
	label string
	min   int
	max   int
}{
	{"0-10", 0, 10},
	{"11-20", 11, 20},
	{"21-30", 21, 30},
	{"31-40", 31, 40},
	{"41-50", 41, 50},
	{"51+", 51, 1<<31 - 1},
}

// statisticsService implements the StatisticsUsecase interface.
type statisticsService struct {
	statsRepo repository.StatsRepository
	logger    *slog.Logger
}

// StatisticsServiceParams holds dependencies for statisticsService, injected by Fx.
type StatisticsServiceParams struct {
	fx.In

	StatsRepo repository.StatsRepository
	Logger    *slog.Logger
}

// NewStatisticsService is the constructor for statisticsService.
func NewStatisticsService(params StatisticsServiceParams) usecase.StatisticsUsecase {
	return &statisticsService{
		statsRepo: params.StatsRepo,
		logger:    params.Logger,
	}
}

// Overview summarizes the whole portal.
func (srv *statisticsService) Overview(ctx context.Context) (*usecase.OverviewStats, error) {
	totalUsers, _, err := srv.statsRepo.CountUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count users")
	}
	totalPersons, err := srv.statsRepo.CountPersons(ctx, uuid.Nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count persons")
	}
	totalRegistrations, err := srv.statsRepo.CountRegistrations(ctx, uuid.Nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count registrations")
	}
	statusCounts, err := srv.statsRepo.RegistrationStatusCounts(ctx, uuid.Nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count registrations by status")
	}
	totalSchools, err := srv.statsRepo.CountSchools(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count schools")
	}
	totalPlans, _, err := srv.statsRepo.CountPlans(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count plans")
	}
	totalDocuments, verifiedDocuments, err := srv.statsRepo.CountDocuments(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count documents")
	}

	return &usecase.OverviewStats{
		TotalUsers:           totalUsers,
		TotalPersons:         totalPersons,
		TotalRegistrations:   totalRegistrations,
		ActiveRegistrations:  statusCounts[entity.StatusActive],
		PendingRegistrations: statusCounts[entity.StatusPending],
		TotalSchools:         totalSchools,
		TotalPlans:           totalPlans,
		TotalDocuments:       totalDocuments,
		VerifiedDocuments:    verifiedDocuments,
	}, nil
}

// Registrations breaks registrations down by status, plan, and month.
func (srv *statisticsService) Registrations(ctx context.Context) (*usecase.RegistrationStats, error) {
	total, err := srv.statsRepo.CountRegistrations(ctx, uuid.Nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count registrations")
	}
	byStatus, err := srv.statsRepo.RegistrationStatusCounts(ctx, uuid.Nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count registrations by status")
	}
	byPlan, err := srv.statsRepo.RegistrationsByPlan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count registrations by plan")
	}
	byMonth, err := srv.statsRepo.RegistrationsByMonth(ctx, statsTrendMonths)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count registrations by month")
	}
	recent, err := srv.statsRepo.CountRegistrationsSince(ctx, time.Now().AddDate(0, 0, -statsRecentDays))
	if err != nil {
		return nil, errors.Wrap(err, "failed to count recent registrations")
	}

	return &usecase.RegistrationStats{
		Total:      total,
		ByStatus:   byStatus,
		ByPlan:     byPlan,
		ByMonth:    byMonth,
		RecentDays: statsRecentDays,
		Recent:     recent,
	}, nil
}

// Persons breaks covered persons down by relation and age.
func (srv *statisticsService) Persons(ctx context.Context) (*usecase.PersonStats, error) {
	total, err := srv.statsRepo.CountPersons(ctx, uuid.Nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count persons")
	}
	byRelation, err := srv.statsRepo.PersonRelationCounts(ctx, uuid.Nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count persons by relation")
	}
	birthDates, err := srv.statsRepo.PersonBirthDates(ctx, uuid.Nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load person birth dates")
	}
	usersWithPersons, err := srv.statsRepo.CountUsersWithPersons(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count users with persons")
	}

	averagePerUser := 0.0
	if usersWithPersons > 0 {
		averagePerUser = float64(total) / float64(usersWithPersons)
	}

	return &usecase.PersonStats{
		Total:          total,
		ByRelation:     byRelation,
		ByAge:          bucketAges(birthDates, time.Now()),
		AveragePerUser: averagePerUser,
	}, nil
}

// Schools breaks the school directory down by type and state.
func (srv *statisticsService) Schools(ctx context.Context) (*usecase.SchoolStats, error) {
	total, err := srv.statsRepo.CountSchools(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count schools")
	}
	byType, err := srv.statsRepo.SchoolTypeCounts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count schools by type")
	}
	byState, err := srv.statsRepo.SchoolsByState(ctx, statsRankingLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count schools by state")
	}
	top, err := srv.statsRepo.TopSchools(ctx, statsRankingLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to rank schools")
	}

	return &usecase.SchoolStats{
		Total:   total,
		ByType:  byType,
		ByState: byState,
		Top:     top,
	}, nil
}

// Plans breaks the plan catalog down with popularity figures.
func (srv *statisticsService) Plans(ctx context.Context) (*usecase.PlanStats, error) {
	total, active, err := srv.statsRepo.CountPlans(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count plans")
	}
	byType, err := srv.statsRepo.PlanTypeCounts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count plans by type")
	}
	popularity, err := srv.statsRepo.RegistrationsByPlan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to rank plans")
	}
	averagePremium, err := srv.statsRepo.AveragePremium(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to average premiums")
	}

	return &usecase.PlanStats{
		Total:          total,
		Active:         active,
		ByType:         byType,
		Popularity:     popularity,
		AveragePremium: averagePremium,
	}, nil
}

// Users breaks accounts down for the admin dashboard.
func (srv *statisticsService) Users(ctx context.Context) (*usecase.UserStats, error) {
	total, admins, err := srv.statsRepo.CountUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count users")
	}
	withRegistrations, err := srv.statsRepo.CountUsersWithRegistrations(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count users with registrations")
	}
	withPersons, err := srv.statsRepo.CountUsersWithPersons(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count users with persons")
	}
	recentSignups, err := srv.statsRepo.CountUsersCreatedSince(ctx, time.Now().AddDate(0, 0, -statsRecentDays))
	if err != nil {
		return nil, errors.Wrap(err, "failed to count recent signups")
	}

	return &usecase.UserStats{
		Total:             total,
		Admins:            admins,
		WithRegistrations: withRegistrations,
		WithPersons:       withPersons,
		RecentDays:        statsRecentDays,
		RecentSignups:     recentSignups,
	}, nil
}

// bucketAges distributes birth dates into the dashboard's age ranges.
func bucketAges(birthDates []time.Time, now time.Time) []usecase.AgeBucketCount {
	counts := make([]int64, len(ageBuckets))
	for _, birthDate := range birthDates {
		person := entity.Person{BirthDate: birthDate}
		age := person.Age(now)
		for i, bucket := range ageBuckets {
			if age >= bucket.min && age <= bucket.max {
				counts[i]++

				break
			}
		}
	}

	out := make([]usecase.AgeBucketCount, len(ageBuckets))
	for i, bucket := range ageBuckets {
		out[i] = usecase.AgeBucketCount{Bucket: bucket.label, Count: counts[i]}
	}

	return out
}
