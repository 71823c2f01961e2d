package repository

import (
	"context"
	"errors"

	"bimeh/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrPlanNotFound is returned when an insurance plan does not exist.
	ErrPlanNotFound = errors.New("insurance plan not found")

	// ErrCoverageNotFound is returned when a plan coverage does not exist.
	ErrCoverageNotFound = errors.New("plan coverage not found")
)

// PlanRepository persists insurance plans and their coverages.
type PlanRepository interface {
	// List returns plans ordered by plan type and name. When onlyActive
	// is set, inactive plans are skipped. Coverages are preloaded.
	List(ctx context.Context, onlyActive bool) ([]*entity.InsurancePlan, error)

	// FindByID retrieves a single plan with its coverages.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.InsurancePlan, error)

	// Create persists a new plan.
	Create(ctx context.Context, plan *entity.InsurancePlan) error

	// Update modifies plan attributes; coverages are managed separately.
	Update(ctx context.Context, plan *entity.InsurancePlan) error

	// CreateCoverage adds a coverage item to a plan.
	CreateCoverage(ctx context.Context, coverage *entity.PlanCoverage) error

	// UpdateCoverage modifies an existing coverage item.
	UpdateCoverage(ctx context.Context, coverage *entity.PlanCoverage) error

	// DeleteCoverage removes a coverage item.
	DeleteCoverage(ctx context.Context, id uuid.UUID) error
}
