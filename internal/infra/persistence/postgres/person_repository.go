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

// personRepository implements the domain.PersonRepository interface.
type personRepository struct {
	db *gorm.DB
}

// NewPersonRepository is the constructor for personRepository.
func NewPersonRepository(db *gorm.DB) repository.PersonRepository {
	return &personRepository{db: db}
}

// ListByUser returns a user's persons, newest first.
func (repo *personRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Person, error) {
	var personModels []model.PersonModel
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&personModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	persons := make([]*entity.Person, 0, len(personModels))
	for i := range personModels {
		persons = append(persons, toPersonDomain(&personModels[i]))
	}

	return persons, nil
}

// FindByID retrieves a single person.
func (repo *personRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Person, error) {
	var personM model.PersonModel
	if err := repo.db.WithContext(ctx).First(&personM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPersonNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toPersonDomain(&personM), nil
}

// FindByIDs retrieves persons by their IDs; missing IDs are skipped.
func (repo *personRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Person, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var personModels []model.PersonModel
	if err := repo.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&personModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	persons := make([]*entity.Person, 0, len(personModels))
	for i := range personModels {
		persons = append(persons, toPersonDomain(&personModels[i]))
	}

	return persons, nil
}

// Create persists a new person.
func (repo *personRepository) Create(ctx context.Context, person *entity.Person) error {
	personM := fromPersonDomain(person)

	if err := repo.db.WithContext(ctx).Create(personM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrPersonAlreadyExists.WrapMessage("national code already registered for this account")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create person")
	}

	person.ID = personM.ID
	person.CreatedAt = personM.CreatedAt
	person.UpdatedAt = personM.UpdatedAt

	return nil
}

// Update modifies an existing person.
func (repo *personRepository) Update(ctx context.Context, person *entity.Person) error {
	result := repo.db.WithContext(ctx).Model(&model.PersonModel{}).
		Where("id = ?", person.ID).
		Updates(map[string]any{
			"first_name":    person.FirstName,
			"last_name":     person.LastName,
			"national_code": person.NationalCode,
			"birth_date":    person.BirthDate,
			"relation":      person.Relation.String(),
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrPersonAlreadyExists.WrapMessage("national code already registered for this account")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update person")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPersonNotFound
	}

	return nil
}

// Delete removes a person.
func (repo *personRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.PersonModel{})
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrConflict.WrapMessage("person is covered by a registration")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete person")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPersonNotFound
	}

	return nil
}

// ExistsByNationalCode reports whether the user already has a person
// with this national code, excluding excludeID when non-zero.
func (repo *personRepository) ExistsByNationalCode(ctx context.Context, userID uuid.UUID, nationalCode string, excludeID uuid.UUID) (bool, error) {
	query := repo.db.WithContext(ctx).Model(&model.PersonModel{}).
		Where("user_id = ? AND national_code = ?", userID, nationalCode)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, errors.WithStack(err)
	}

	return count > 0, nil
}

// List returns persons matching the filter together with the total count.
func (repo *personRepository) List(ctx context.Context, filter repository.PersonFilter) ([]*entity.Person, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.PersonModel{})

	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Relation != "" {
		query = query.Where("relation = ?", filter.Relation.String())
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR national_code ILIKE ?",
			pattern, pattern, pattern,
		)
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

	var personModels []model.PersonModel
	if err := query.Order("created_at DESC").Find(&personModels).Error; err != nil {
		return nil, 0, errors.WithStack(err)
	}

	persons := make([]*entity.Person, 0, len(personModels))
	for i := range personModels {
		persons = append(persons, toPersonDomain(&personModels[i]))
	}

	return persons, total, nil
}

// --- Mapper Functions ---

// toPersonDomain converts a GORM PersonModel to a domain Person entity.
func toPersonDomain(data *model.PersonModel) *entity.Person {
	if data == nil {
		return nil
	}

	return &entity.Person{
		ID:           data.ID,
		UserID:       data.UserID,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		NationalCode: data.NationalCode,
		BirthDate:    data.BirthDate,
		Relation:     entity.Relation(data.Relation),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromPersonDomain converts a domain Person entity to a GORM PersonModel.
func fromPersonDomain(data *entity.Person) *model.PersonModel {
	if data == nil {
		return nil
	}

	return &model.PersonModel{
		ID:           data.ID,
		UserID:       data.UserID,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		NationalCode: data.NationalCode,
		BirthDate:    data.BirthDate,
		Relation:     data.Relation.String(),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
