package usecase

import (
	"context"

	"bimeh/internal/domain/entity"
	"bimeh/internal/domain/repository"
)

// OverviewStats summarizes the whole portal on one dashboard card.
type OverviewStats struct {
	TotalUsers           int64
	TotalPersons         int64
	TotalRegistrations   int64
	ActiveRegistrations  int64
	PendingRegistrations int64
	TotalSchools         int64
	TotalPlans           int64
	TotalDocuments       int64
	VerifiedDocuments    int64
}

// RegistrationStats breaks registrations down for the admin dashboard.
type RegistrationStats struct {
	Total      int64
	ByStatus   map[entity.RegistrationStatus]int64
	ByPlan     []repository.PlanRegistrationCount
	ByMonth    []repository.MonthCount
	RecentDays int
	Recent     int64
}

// AgeBucketCount pairs an age range label with its person count.
type AgeBucketCount struct {
	Bucket string
	Count  int64
}

// PersonStats breaks covered persons down by relation and age.
type PersonStats struct {
	Total          int64
	ByRelation     map[entity.Relation]int64
	ByAge          []AgeBucketCount
	AveragePerUser float64
}

// SchoolStats breaks the school directory down by type and state.
type SchoolStats struct {
	Total   int64
	ByType  map[entity.SchoolType]int64
	ByState []repository.StateSchoolCount
	Top     []repository.SchoolRegistrationCount
}

// PlanStats breaks the plan catalog down with popularity figures.
type PlanStats struct {
	Total          int64
	Active         int64
	ByType         map[entity.PlanType]int64
	Popularity     []repository.PlanRegistrationCount
	AveragePremium float64
}

// UserStats breaks accounts down for the admin dashboard.
type UserStats struct {
	Total             int64
	Admins            int64
	WithRegistrations int64
	WithPersons       int64
	RecentDays        int
	RecentSignups     int64
}

// StatisticsUsecase serves the admin dashboard aggregates.
type StatisticsUsecase interface {
	Overview(ctx context.Context) (*OverviewStats, error)
	Registrations(ctx context.Context) (*RegistrationStats, error)
	Persons(ctx context.Context) (*PersonStats, error)
	Schools(ctx context.Context) (*SchoolStats, error)
	Plans(ctx context.Context) (*PlanStats, error)
	Users(ctx context.Context) (*UserStats, error)
}
