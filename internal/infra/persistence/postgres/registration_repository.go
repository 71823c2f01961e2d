package postgres

import (
	"context"
	"encoding/json"

	"bimeh/internal/domain/entity"
	domainerrors "bimeh/internal/domain/errors"
	"bimeh/internal/domain/repository"
	"bimeh/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// registrationRepository implements the domain.RegistrationRepository interface.
type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository is the constructor for registrationRepository.
func NewRegistrationRepository(db *gorm.DB) repository.RegistrationRepository {
	return &registrationRepository{db: db}
}

// terminalStatuses are the statuses with no forward transitions.
func terminalStatuses() []string {
	statuses := make([]string, 0, 3)
	for _, s := range entity.AllStatuses() {
		if s.IsTerminal() {
			statuses = append(statuses, s.String())
		}
	}

	return statuses
}

// Create persists a new registration together with its person links.
func (repo *registrationRepository) Create(ctx context.Context, registration *entity.Registration) error {
	regM, err := fromRegistrationDomain(registration)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(regM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid plan, school or person reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create registration")
	}

	registration.ID = regM.ID
	registration.CreatedAt = regM.CreatedAt
	registration.UpdatedAt = regM.UpdatedAt

	return nil
}

// FindByID retrieves a single registration with its person links.
func (repo *registrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Registration, error) {
	var regM model.InsuranceRegistrationModel
	if err := repo.db.WithContext(ctx).
		Preload("Persons").
		First(&regM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRegistrationNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toRegistrationDomain(&regM)
}

// ListByUser returns a user's registrations, newest first.
func (repo *registrationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Registration, error) {
	var regModels []model.InsuranceRegistrationModel
	if err := repo.db.WithContext(ctx).
		Preload("Persons").
		Where("user_id = ?", userID).
		Order("registration_date DESC").
		Find(&regModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	return toRegistrationDomainSlice(regModels)
}

// List returns registrations matching the filter, newest first, with the total count.
func (repo *registrationRepository) List(ctx context.Context, filter repository.RegistrationFilter) ([]*entity.Registration, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.InsuranceRegistrationModel{})

	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.PlanID != uuid.Nil {
		query = query.Where("plan_id = ?", filter.PlanID)
	}
	if filter.SchoolID != uuid.Nil {
		query = query.Where("school_id = ?", filter.SchoolID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.WithStack(err)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var regModels []model.InsuranceRegistrationModel
	if err := query.
		Preload("Persons").
		Order("registration_date DESC").
		Find(&regModels).Error; err != nil {
		return nil, 0, errors.WithStack(err)
	}

	registrations, err := toRegistrationDomainSlice(regModels)
	if err != nil {
		return nil, 0, err
	}

	return registrations, total, nil
}

// Update modifies an existing registration, replacing its person links.
func (repo *registrationRepository) Update(ctx context.Context, registration *entity.Registration) error {
	regM, err := fromRegistrationDomain(registration)
	if err != nil {
		return err
	}

	result := repo.db.WithContext(ctx).Model(&model.InsuranceRegistrationModel{}).
		Where("id = ?", registration.ID).
		Updates(map[string]any{
			"plan_id":         regM.PlanID,
			"school_id":       regM.SchoolID,
			"status":          regM.Status,
			"start_date":      regM.StartDate,
			"end_date":        regM.EndDate,
			"additional_info": regM.AdditionalInfo,
		})
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid plan or school reference")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update registration")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRegistrationNotFound
	}

	// Replace person links with the entity's current set.
	if err := repo.db.WithContext(ctx).
		Where("registration_id = ?", registration.ID).
		Delete(&model.RegistrationPersonModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear registration persons")
	}
	if len(regM.Persons) > 0 {
		links := make([]model.RegistrationPersonModel, 0, len(regM.Persons))
		for _, link := range regM.Persons {
			link.RegistrationID = registration.ID
			links = append(links, link)
		}
		if err := repo.db.WithContext(ctx).Create(&links).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to link registration persons")
		}
	}

	return nil
}

// HasOngoing reports whether the user already has a registration in a
// non-terminal status.
func (repo *registrationRepository) HasOngoing(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.InsuranceRegistrationModel{}).
		Where("user_id = ? AND status NOT IN ?", userID, terminalStatuses()).
		Count(&count).Error; err != nil {
		return false, errors.WithStack(err)
	}

	return count > 0, nil
}

// --- Mapper Functions ---

// toRegistrationDomain converts a GORM InsuranceRegistrationModel to a domain Registration entity.
func toRegistrationDomain(data *model.InsuranceRegistrationModel) (*entity.Registration, error) {
	if data == nil {
		return nil, nil
	}

	var additionalInfo map[string]any
	if len(data.AdditionalInfo) > 0 {
		if err := json.Unmarshal(data.AdditionalInfo, &additionalInfo); err != nil {
			return nil, errors.Wrap(err, "failed to decode registration additional info")
		}
	}

	personIDs := make([]uuid.UUID, 0, len(data.Persons))
	for _, link := range data.Persons {
		personIDs = append(personIDs, link.PersonID)
	}

	return &entity.Registration{
		ID:               data.ID,
		UserID:           data.UserID,
		PlanID:           data.PlanID,
		SchoolID:         data.SchoolID,
		PersonIDs:        personIDs,
		Status:           entity.RegistrationStatus(data.Status),
		RegistrationDate: data.RegistrationDate,
		StartDate:        data.StartDate,
		EndDate:          data.EndDate,
		AdditionalInfo:   additionalInfo,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}, nil
}

func toRegistrationDomainSlice(regModels []model.InsuranceRegistrationModel) ([]*entity.Registration, error) {
	registrations := make([]*entity.Registration, 0, len(regModels))
	for i := range regModels {
		registration, err := toRegistrationDomain(&regModels[i])
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, registration)
	}

	return registrations, nil
}

// fromRegistrationDomain converts a domain Registration entity to a GORM InsuranceRegistrationModel.
func fromRegistrationDomain(data *entity.Registration) (*model.InsuranceRegistrationModel, error) {
	if data == nil {
		return nil, nil
	}

	var additionalInfo []byte
	if len(data.AdditionalInfo) > 0 {
		encoded, err := json.Marshal(data.AdditionalInfo)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode registration additional info")
		}
		additionalInfo = encoded
	}

	persons := make([]model.RegistrationPersonModel, 0, len(data.PersonIDs))
	for _, personID := range data.PersonIDs {
		persons = append(persons, model.RegistrationPersonModel{
			RegistrationID: data.ID,
			PersonID:       personID,
		})
	}

	return &model.InsuranceRegistrationModel{
		ID:               data.ID,
		UserID:           data.UserID,
		PlanID:           data.PlanID,
		SchoolID:         data.SchoolID,
		Status:           data.Status.String(),
		RegistrationDate: data.RegistrationDate,
		StartDate:        data.StartDate,
		EndDate:          data.EndDate,
		AdditionalInfo:   additionalInfo,
		Persons:          persons,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}, nil
}
