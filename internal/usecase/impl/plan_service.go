package impl

import (
	"context"
	"log/slog"

	deliverycontext "bimeh/internal/delivery/context"
	"bimeh/internal/domain/entity"
	domainerrors "bimeh/internal/domain/errors"
	"bimeh/internal/domain/repository"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// planService implements the PlanUsecase interface.
type planService struct {
	txManager repository.TransactionManager
	planRepo  repository.PlanRepository
	logger    *slog.Logger
}

// PlanServiceParams holds dependencies for planService, injected by Fx.
type PlanServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	PlanRepo  repository.PlanRepository
	Logger    *slog.Logger
}

// NewPlanService is the constructor for planService.
func NewPlanService(params PlanServiceParams) usecase.PlanUsecase {
	return &planService{
		txManager: params.TxManager,
		planRepo:  params.PlanRepo,
		logger:    params.Logger,
	}
}

func (srv *planService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListPlans returns the active plan catalog.
func (srv *planService) ListPlans(ctx context.Context) ([]*entity.InsurancePlan, error) {
	plans, err := srv.planRepo.List(ctx, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active plans")
	}

	return plans, nil
}

// GetPlan returns a single plan with its coverages.
func (srv *planService) GetPlan(ctx context.Context, id uuid.UUID) (*entity.InsurancePlan, error) {
	plan, err := srv.planRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPlanNotFound, "plan not found")
		}

		return nil, errors.Wrap(err, "failed to find plan")
	}

	return plan, nil
}

// ListAllPlans returns every plan for the admin catalog.
func (srv *planService) ListAllPlans(ctx context.Context) ([]*entity.InsurancePlan, error) {
	plans, err := srv.planRepo.List(ctx, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list plans")
	}

	return plans, nil
}

// CreatePlan adds a new plan to the catalog.
func (srv *planService) CreatePlan(ctx context.Context, input *usecase.PlanInput) (*entity.InsurancePlan, error) {
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Creating plan", slog.String("name", input.Name), slog.String("planType", input.PlanType.String()))

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	plan := &entity.InsurancePlan{
		Name:           input.Name,
		PlanType:       input.PlanType,
		Description:    input.Description,
		MonthlyPremium: input.MonthlyPremium,
		IsActive:       isActive,
	}
	if err := srv.planRepo.Create(ctx, plan); err != nil {
		srv.log(ctx).Error("Failed to create plan", slog.String("name", input.Name), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create plan")
	}

	return plan, nil
}

// UpdatePlan modifies a plan's attributes.
func (srv *planService) UpdatePlan(ctx context.Context, id uuid.UUID, input *usecase.PlanInput) (*entity.InsurancePlan, error) {
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}

	var updated *entity.InsurancePlan
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		planRepo := repoFactory.NewPlanRepository()

		plan, err := planRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrPlanNotFound) {
				return errors.Wrap(domainerrors.ErrPlanNotFound, "plan not found")
			}

			return errors.Wrap(err, "failed to find plan")
		}

		plan.Name = input.Name
		plan.PlanType = input.PlanType
		plan.Description = input.Description
		plan.MonthlyPremium = input.MonthlyPremium
		if input.IsActive != nil {
			plan.IsActive = *input.IsActive
		}
		if err := planRepo.Update(ctx, plan); err != nil {
			return errors.Wrap(err, "failed to update plan")
		}
		updated = plan

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update plan", slog.Any("planID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute plan update transaction")
	}

	return updated, nil
}

// DeactivatePlan retires a plan from new registrations. Existing
// registrations keep their reference; nothing is deleted.
func (srv *planService) DeactivatePlan(ctx context.Context, id uuid.UUID) error {
	srv.log(ctx).Info("Deactivating plan", slog.Any("planID", id))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		planRepo := repoFactory.NewPlanRepository()

		plan, err := planRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrPlanNotFound) {
				return errors.Wrap(domainerrors.ErrPlanNotFound, "plan not found")
			}

			return errors.Wrap(err, "failed to find plan")
		}

		if !plan.IsActive {
			return nil
		}
		plan.IsActive = false

		return errors.Wrap(planRepo.Update(ctx, plan), "failed to deactivate plan")
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute plan deactivation transaction")
	}

	return nil
}

// ListCoverages returns every coverage item across all plans for the
// admin coverage table.
func (srv *planService) ListCoverages(ctx context.Context) ([]*entity.PlanCoverage, error) {
	plans, err := srv.planRepo.List(ctx, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list plans")
	}

	coverages := make([]*entity.PlanCoverage, 0)
	for _, plan := range plans {
		for i := range plan.Coverages {
			coverages = append(coverages, &plan.Coverages[i])
		}
	}

	return coverages, nil
}

// CreateCoverage adds a coverage item to a plan.
func (srv *planService) CreateCoverage(ctx context.Context, input *usecase.CoverageInput) (*entity.PlanCoverage, error) {
	if err := validateCoverageInput(input); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Creating coverage", slog.Any("planID", input.PlanID), slog.String("coverageType", input.CoverageType.String()))

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	coverage := &entity.PlanCoverage{
		PlanID:             input.PlanID,
		CoverageType:       input.CoverageType,
		Title:              input.Title,
		Description:        input.Description,
		CoverageAmount:     input.CoverageAmount,
		CoveragePercentage: input.CoveragePercentage,
		MaxUsageCount:      input.MaxUsageCount,
		IsActive:           isActive,
	}
	if err := srv.planRepo.CreateCoverage(ctx, coverage); err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPlanNotFound, "plan not found")
		}
		srv.log(ctx).Error("Failed to create coverage", slog.Any("planID", input.PlanID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create coverage")
	}

	return coverage, nil
}

// UpdateCoverage modifies a coverage item on its plan.
func (srv *planService) UpdateCoverage(ctx context.Context, id uuid.UUID, input *usecase.CoverageInput) (*entity.PlanCoverage, error) {
	if err := validateCoverageInput(input); err != nil {
		return nil, err
	}

	var updated *entity.PlanCoverage
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		planRepo := repoFactory.NewPlanRepository()

		plan, err := planRepo.FindByID(ctx, input.PlanID)
		if err != nil {
			if errors.Is(err, repository.ErrPlanNotFound) {
				return errors.Wrap(domainerrors.ErrPlanNotFound, "plan not found")
			}

			return errors.Wrap(err, "failed to find plan")
		}

		var coverage *entity.PlanCoverage
		for i := range plan.Coverages {
			if plan.Coverages[i].ID == id {
				coverage = &plan.Coverages[i]

				break
			}
		}
		if coverage == nil {
			return errors.Wrap(domainerrors.ErrNotFound, "coverage not found on this plan")
		}

		coverage.CoverageType = input.CoverageType
		coverage.Title = input.Title
		coverage.Description = input.Description
		coverage.CoverageAmount = input.CoverageAmount
		coverage.CoveragePercentage = input.CoveragePercentage
		coverage.MaxUsageCount = input.MaxUsageCount
		if input.IsActive != nil {
			coverage.IsActive = *input.IsActive
		}
		if err := planRepo.UpdateCoverage(ctx, coverage); err != nil {
			return errors.Wrap(err, "failed to update coverage")
		}
		updated = coverage

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update coverage", slog.Any("coverageID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute coverage update transaction")
	}

	return updated, nil
}

// DeleteCoverage removes a coverage item.
func (srv *planService) DeleteCoverage(ctx context.Context, id uuid.UUID) error {
	srv.log(ctx).Info("Deleting coverage", slog.Any("coverageID", id))

	if err := srv.planRepo.DeleteCoverage(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCoverageNotFound) {
			return errors.Wrap(domainerrors.ErrNotFound, "coverage not found")
		}

		return errors.Wrap(err, "failed to delete coverage")
	}

	return nil
}

func validatePlanInput(input *usecase.PlanInput) error {
	if input.Name == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed, "plan name is required")
	}
	if !input.PlanType.IsValid() {
		return errors.Wrap(domainerrors.ErrValidationFailed, "unknown plan type")
	}
	if input.MonthlyPremium < 0 {
		return errors.Wrap(domainerrors.ErrValidationFailed, "monthly premium cannot be negative")
	}

	return nil
}

func validateCoverageInput(input *usecase.CoverageInput) error {
	if input.PlanID == uuid.Nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, "plan id is required")
	}
	if !input.CoverageType.IsValid() {
		return errors.Wrap(domainerrors.ErrValidationFailed, "unknown coverage type")
	}
	if input.Title == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed, "coverage title is required")
	}
	if input.CoverageAmount < 0 {
		return errors.Wrap(domainerrors.ErrValidationFailed, "coverage amount cannot be negative")
	}
	if input.CoveragePercentage < 0 || input.CoveragePercentage > 100 {
		return errors.Wrap(domainerrors.ErrValidationFailed, "coverage percentage must be between 0 and 100")
	}
	if input.MaxUsageCount != nil && *input.MaxUsageCount < 0 {
		return errors.Wrap(domainerrors.ErrValidationFailed, "max usage count cannot be negative")
	}

	return nil
}
