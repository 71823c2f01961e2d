package usecase

import (
	"context"

	"bimeh/internal/domain/entity"

	"github.com/google/uuid"
)

// PlanInput defines the data for creating or updating a plan.
type PlanInput struct {
	Name           string
	PlanType       entity.PlanType
	Description    string
	MonthlyPremium int64
	IsActive       *bool // Nil keeps the current value on update.
}

// CoverageInput defines the data for creating or updating a coverage.
type CoverageInput struct {
	PlanID             uuid.UUID
	CoverageType       entity.CoverageType
	Title              string
	Description        string
	CoverageAmount     int64
	CoveragePercentage int
	MaxUsageCount      *int
	IsActive           *bool
}

// PlanUsecase covers the public plan catalog and the admin mirror.
type PlanUsecase interface {
	// ListPlans returns active plans with their coverages.
	ListPlans(ctx context.Context) ([]*entity.InsurancePlan, error)

	// GetPlan returns a single plan with its coverages.
	GetPlan(ctx context.Context, id uuid.UUID) (*entity.InsurancePlan, error)

	// ListAllPlans returns every plan, active or not. Admin only.
	ListAllPlans(ctx context.Context) ([]*entity.InsurancePlan, error)

	// CreatePlan adds a plan. Admin only.
	CreatePlan(ctx context.Context, input *PlanInput) (*entity.InsurancePlan, error)

	// UpdatePlan modifies a plan. Admin only.
	UpdatePlan(ctx context.Context, id uuid.UUID, input *PlanInput) (*entity.InsurancePlan, error)

	// DeactivatePlan retires a plan from new registrations without
	// touching existing ones. Admin only.
	DeactivatePlan(ctx context.Context, id uuid.UUID) error

	// ListCoverages returns every coverage item across all plans. Admin only.
	ListCoverages(ctx context.Context) ([]*entity.PlanCoverage, error)

	// CreateCoverage adds a coverage item to a plan. Admin only.
	CreateCoverage(ctx context.Context, input *CoverageInput) (*entity.PlanCoverage, error)

	// UpdateCoverage modifies a coverage item. Admin only.
	UpdateCoverage(ctx context.Context, id uuid.UUID, input *CoverageInput) (*entity.PlanCoverage, error)

	// DeleteCoverage removes a coverage item. Admin only.
	DeleteCoverage(ctx context.Context, id uuid.UUID) error
}
