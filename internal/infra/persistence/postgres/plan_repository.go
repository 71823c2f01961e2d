package postgres

import (
	"context"

	"bimeh/internal/domain/entity"
	domainerrors "bimeh/internal/domain/errors"
	"bimeh/internal/domain/repository"
	"bimeh/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// planRepository implements the domain.PlanRepository interface.
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository is the constructor for planRepository.
func NewPlanRepository(db *gorm.DB) repository.PlanRepository {
	return &planRepository{db: db}
}

// List returns plans ordered by plan type and name, with coverages preloaded.
func (repo *planRepository) List(ctx context.Context, onlyActive bool) ([]*entity.InsurancePlan, error) {
	query := repo.db.WithContext(ctx).Model(&model.InsurancePlanModel{}).
		Preload("Coverages", func(db *gorm.DB) *gorm.DB {
			return db.Order("coverage_type ASC")
		})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}

	var planModels []model.InsurancePlanModel
	if err := query.Order("monthly_premium ASC, name ASC").Find(&planModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	plans := make([]*entity.InsurancePlan, 0, len(planModels))
	for i := range planModels {
		plans = append(plans, toPlanDomain(&planModels[i]))
	}

	return plans, nil
}

// FindByID retrieves a single plan with its coverages.
func (repo *planRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.InsurancePlan, error) {
	var planM model.InsurancePlanModel
	if err := repo.db.WithContext(ctx).
		Preload("Coverages").
		First(&planM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlanNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toPlanDomain(&planM), nil
}

// Create persists a new plan.
func (repo *planRepository) Create(ctx context.Context, plan *entity.InsurancePlan) error {
	planM := fromPlanDomain(plan)

	if err := repo.db.WithContext(ctx).Create(planM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("plan name already in use")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create insurance plan")
	}

	plan.ID = planM.ID
	plan.CreatedAt = planM.CreatedAt
	plan.UpdatedAt = planM.UpdatedAt

	return nil
}

// Update modifies plan attributes; coverages are managed separately.
func (repo *planRepository) Update(ctx context.Context, plan *entity.InsurancePlan) error {
	result := repo.db.WithContext(ctx).Model(&model.InsurancePlanModel{}).
		Where("id = ?", plan.ID).
		Updates(map[string]any{
			"name":            plan.Name,
			"plan_type":       plan.PlanType.String(),
			"description":     plan.Description,
			"monthly_premium": plan.MonthlyPremium,
			"is_active":       plan.IsActive,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrConflict.WrapMessage("plan name already in use")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update insurance plan")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPlanNotFound
	}

	return nil
}

// CreateCoverage adds a coverage item to a plan.
func (repo *planRepository) CreateCoverage(ctx context.Context, coverage *entity.PlanCoverage) error {
	coverageM := fromCoverageDomain(coverage)

	if err := repo.db.WithContext(ctx).Create(coverageM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrCoverageConflict.WrapMessage("plan already covers this type")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrPlanNotFound.WrapMessage("plan does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create plan coverage")
	}

	coverage.ID = coverageM.ID
	coverage.CreatedAt = coverageM.CreatedAt

	return nil
}

// UpdateCoverage modifies an existing coverage item.
func (repo *planRepository) UpdateCoverage(ctx context.Context, coverage *entity.PlanCoverage) error {
	result := repo.db.WithContext(ctx).Model(&model.PlanCoverageModel{}).
		Where("id = ?", coverage.ID).
		Updates(map[string]any{
			"coverage_type":       coverage.CoverageType.String(),
			"title":               coverage.Title,
			"description":         coverage.Description,
			"coverage_amount":     coverage.CoverageAmount,
			"coverage_percentage": coverage.CoveragePercentage,
			"max_usage_count":     coverage.MaxUsageCount,
			"is_active":           coverage.IsActive,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrCoverageConflict.WrapMessage("plan already covers this type")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update plan coverage")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCoverageNotFound
	}

	return nil
}

// DeleteCoverage removes a coverage item.
func (repo *planRepository) DeleteCoverage(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.PlanCoverageModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete plan coverage")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCoverageNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toPlanDomain converts a GORM InsurancePlanModel to a domain InsurancePlan entity.
func toPlanDomain(data *model.InsurancePlanModel) *entity.InsurancePlan {
	if data == nil {
		return nil
	}

	coverages := make([]entity.PlanCoverage, 0, len(data.Coverages))
	for i := range data.Coverages {
		coverages = append(coverages, *toCoverageDomain(&data.Coverages[i]))
	}

	return &entity.InsurancePlan{
		ID:             data.ID,
		Name:           data.Name,
		PlanType:       entity.PlanType(data.PlanType),
		Description:    data.Description,
		MonthlyPremium: data.MonthlyPremium,
		IsActive:       data.IsActive,
		Coverages:      coverages,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromPlanDomain converts a domain InsurancePlan entity to a GORM InsurancePlanModel.
// Coverages are intentionally not carried over; they are persisted separately.
func fromPlanDomain(data *entity.InsurancePlan) *model.InsurancePlanModel {
	if data == nil {
		return nil
	}

	return &model.InsurancePlanModel{
		ID:             data.ID,
		Name:           data.Name,
		PlanType:       data.PlanType.String(),
		Description:    data.Description,
		MonthlyPremium: data.MonthlyPremium,
		IsActive:       data.IsActive,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// toCoverageDomain converts a GORM PlanCoverageModel to a domain PlanCoverage entity.
func toCoverageDomain(data *model.PlanCoverageModel) *entity.PlanCoverage {
	if data == nil {
		return nil
	}

	return &entity.PlanCoverage{
		ID:                 data.ID,
		PlanID:             data.PlanID,
		CoverageType:       entity.CoverageType(data.CoverageType),
		Title:              data.Title,
		Description:        data.Description,
		CoverageAmount:     data.CoverageAmount,
		CoveragePercentage: data.CoveragePercentage,
		MaxUsageCount:      data.MaxUsageCount,
		IsActive:           data.IsActive,
		CreatedAt:          data.CreatedAt,
	}
}

// fromCoverageDomain converts a domain PlanCoverage entity to a GORM PlanCoverageModel.
func fromCoverageDomain(data *entity.PlanCoverage) *model.PlanCoverageModel {
	if data == nil {
		return nil
	}

	return &model.PlanCoverageModel{
		ID:                 data.ID,
		PlanID:             data.PlanID,
		CoverageType:       data.CoverageType.String(),
		Title:              data.Title,
		Description:        data.Description,
		CoverageAmount:     data.CoverageAmount,
		CoveragePercentage: data.CoveragePercentage,
		MaxUsageCount:      data.MaxUsageCount,
		IsActive:           data.IsActive,
		CreatedAt:          data.CreatedAt,
	}
}
