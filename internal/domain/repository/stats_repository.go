package repository

import (
	"context"
	"time"

	"bimeh/internal/domain/entity"

	"github.com/google/uuid"
)

// PlanRegistrationCount pairs a plan with its registration count.
type PlanRegistrationCount struct {
	PlanID         uuid.UUID
	PlanName       string
	PlanType       entity.PlanType
	MonthlyPremium int64
	Count          int64
}

// SchoolRegistrationCount pairs a school with its registration count.
type SchoolRegistrationCount struct {
	SchoolID   uuid.UUID
	SchoolName string
	SchoolType entity.SchoolType
	Count      int64
}

// StateSchoolCount pairs a state with the number of schools under it.
type StateSchoolCount struct {
	StateID   uuid.UUID
	StateName string
	Count     int64
}

// MonthCount pairs a calendar month (YYYY-MM) with a count.
type MonthCount struct {
	Month string
	Count int64
}

// StatsRepository provides the read-only aggregates behind the
// dashboard. Methods taking a userID treat uuid.Nil as "all users".
type StatsRepository interface {
	// CountUsers returns the total and admin account counts.
	CountUsers(ctx context.Context) (total, admins int64, err error)

	// CountUsersCreatedSince counts accounts created at or after since.
	CountUsersCreatedSince(ctx context.Context, since time.Time) (int64, error)

	// CountUsersWithRegistrations counts distinct accounts holding at
	// least one registration.
	CountUsersWithRegistrations(ctx context.Context) (int64, error)

	// CountUsersWithPersons counts distinct accounts with at least one
	// covered person.
	CountUsersWithPersons(ctx context.Context) (int64, error)

	// CountPersons counts covered persons, optionally scoped to a user.
	CountPersons(ctx context.Context, userID uuid.UUID) (int64, error)

	// PersonRelationCounts groups covered persons by relation.
	PersonRelationCounts(ctx context.Context, userID uuid.UUID) (map[entity.Relation]int64, error)

	// PersonBirthDates lists birth dates for age-distribution buckets.
	PersonBirthDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error)

	// CountRegistrations counts registrations, optionally scoped to a user.
	CountRegistrations(ctx context.Context, userID uuid.UUID) (int64, error)

	// RegistrationStatusCounts groups registrations by status.
	RegistrationStatusCounts(ctx context.Context, userID uuid.UUID) (map[entity.RegistrationStatus]int64, error)

	// RegistrationsByPlan counts registrations per plan, most popular first.
	RegistrationsByPlan(ctx context.Context) ([]PlanRegistrationCount, error)

	// RegistrationsByMonth counts registrations per calendar month over
	// the trailing months window, oldest first.
	RegistrationsByMonth(ctx context.Context, months int) ([]MonthCount, error)

	// CountRegistrationsSince counts registrations submitted at or after since.
	CountRegistrationsSince(ctx context.Context, since time.Time) (int64, error)

	// CountSchools returns the total school count.
	CountSchools(ctx context.Context) (int64, error)

	// SchoolTypeCounts groups schools by type.
	SchoolTypeCounts(ctx context.Context) (map[entity.SchoolType]int64, error)

	// SchoolsByState counts schools per state, largest first, limited.
	SchoolsByState(ctx context.Context, limit int) ([]StateSchoolCount, error)

	// TopSchools lists schools with the most registrations, limited.
	TopSchools(ctx context.Context, limit int) ([]SchoolRegistrationCount, error)

	// CountPlans returns the total and active plan counts.
	CountPlans(ctx context.Context) (total, active int64, err error)

	// PlanTypeCounts groups plans by type.
	PlanTypeCounts(ctx context.Context) (map[entity.PlanType]int64, error)

	// AveragePremium returns the mean monthly premium across plans.
	AveragePremium(ctx context.Context) (float64, error)

	// CountDocuments returns total and verified document counts.
	CountDocuments(ctx context.Context) (total, verified int64, err error)
}
