package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "bimeh/internal/delivery/context"
	"bimeh/internal/domain/entity"
	domainerrors "bimeh/internal/domain/errors"
	"bimeh/internal/domain/repository"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// personService implements the PersonUsecase interface.
type personService struct {
	txManager  repository.TransactionManager
	personRepo repository.PersonRepository
	logger     *slog.Logger
}

// PersonServiceParams holds dependencies for personService, injected by Fx.
type PersonServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	PersonRepo repository.PersonRepository
	Logger     *slog.Logger
}

// NewPersonService is the constructor for personService.
func NewPersonService(params PersonServiceParams) usecase.PersonUsecase {
	return &personService{
		txManager:  params.TxManager,
		personRepo: params.PersonRepo,
		logger:     params.Logger,
	}
}

func (srv *personService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListMine returns the caller's covered persons.
func (srv *personService) ListMine(ctx context.Context, userID uuid.UUID) ([]*entity.Person, error) {
	persons, err := srv.personRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list persons")
	}

	return persons, nil
}

// GetMine returns one of the caller's covered persons.
func (srv *personService) GetMine(ctx context.Context, userID, personID uuid.UUID) (*entity.Person, error) {
	person, err := srv.findOwned(ctx, srv.personRepo, userID, personID)
	if err != nil {
		return nil, err
	}

	return person, nil
}

// Create adds a covered person to the caller's account.
func (srv *personService) Create(ctx context.Context, userID uuid.UUID, input *usecase.PersonInput) (*entity.Person, error) {
	if err := validatePersonInput(input); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Creating person", slog.Any("userID", userID), slog.String("relation", input.Relation.String()))

	var created *entity.Person
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		personRepo := repoFactory.NewPersonRepository()

		exists, err := personRepo.ExistsByNationalCode(ctx, userID, input.NationalCode, uuid.Nil)
		if err != nil {
			return errors.Wrap(err, "failed to check national code uniqueness")
		}
		if exists {
			return errors.Wrap(domainerrors.ErrPersonAlreadyExists, "national code already registered for this account")
		}

		person := &entity.Person{
			UserID:       userID,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			NationalCode: input.NationalCode,
			BirthDate:    input.BirthDate,
			Relation:     input.Relation,
		}
		if err := personRepo.Create(ctx, person); err != nil {
			return errors.Wrap(err, "failed to create person")
		}
		created = person

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create person", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute person creation transaction")
	}

	return created, nil
}

// Update changes one of the caller's covered persons.
func (srv *personService) Update(ctx context.Context, userID, personID uuid.UUID, input *usecase.PersonInput) (*entity.Person, error) {
	if err := validatePersonInput(input); err != nil {
		return nil, err
	}

	var updated *entity.Person
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		personRepo := repoFactory.NewPersonRepository()

		person, err := srv.findOwned(ctx, personRepo, userID, personID)
		if err != nil {
			return err
		}

		if input.NationalCode != person.NationalCode {
			exists, err := personRepo.ExistsByNationalCode(ctx, userID, input.NationalCode, personID)
			if err != nil {
				return errors.Wrap(err, "failed to check national code uniqueness")
			}
			if exists {
				return errors.Wrap(domainerrors.ErrPersonAlreadyExists, "national code already registered for this account")
			}
		}

		person.FirstName = input.FirstName
		person.LastName = input.LastName
		person.NationalCode = input.NationalCode
		person.BirthDate = input.BirthDate
		person.Relation = input.Relation
		if err := personRepo.Update(ctx, person); err != nil {
			return errors.Wrap(err, "failed to update person")
		}
		updated = person

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update person", slog.Any("personID", personID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute person update transaction")
	}

	return updated, nil
}

// Delete removes one of the caller's covered persons. A person still
// linked to a registration is protected by the database and surfaces
// as a conflict.
func (srv *personService) Delete(ctx context.Context, userID, personID uuid.UUID) error {
	srv.log(ctx).Info("Deleting person", slog.Any("userID", userID), slog.Any("personID", personID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		personRepo := repoFactory.NewPersonRepository()

		if _, err := srv.findOwned(ctx, personRepo, userID, personID); err != nil {
			return err
		}

		return errors.Wrap(personRepo.Delete(ctx, personID), "failed to delete person")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete person", slog.Any("personID", personID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute person deletion transaction")
	}

	return nil
}

// List pages through all persons for the admin directory.
func (srv *personService) List(ctx context.Context, input *usecase.ListPersonsInput) (*usecase.PersonListOutput, error) {
	if input.Relation != "" && !input.Relation.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown relation")
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	persons, total, err := srv.personRepo.List(ctx, repository.PersonFilter{
		UserID:   input.UserID,
		Relation: input.Relation,
		Search:   input.Search,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list persons")
	}

	return &usecase.PersonListOutput{Persons: persons, Total: total}, nil
}

// findOwned loads a person and verifies it belongs to the user. A
// person owned by someone else is reported as not found.
func (srv *personService) findOwned(ctx context.Context, personRepo repository.PersonRepository, userID, personID uuid.UUID) (*entity.Person, error) {
	person, err := personRepo.FindByID(ctx, personID)
	if err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPersonNotFound, "person not found")
		}

		return nil, errors.Wrap(err, "failed to find person")
	}
	if person.UserID != userID {
		return nil, errors.Wrap(domainerrors.ErrPersonNotFound, "person belongs to another account")
	}

	return person, nil
}

func validatePersonInput(input *usecase.PersonInput) error {
	if input.FirstName == "" || input.LastName == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed, "first and last name are required")
	}
	if !entity.ValidNationalCode(input.NationalCode) {
		return errors.Wrap(domainerrors.ErrInvalidNationalID, "national code failed checksum validation")
	}
	if !input.Relation.IsValid() {
		return errors.Wrap(domainerrors.ErrValidationFailed, "unknown relation")
	}
	if input.BirthDate.IsZero() || input.BirthDate.After(time.Now()) {
		return errors.Wrap(domainerrors.ErrValidationFailed, "birth date must be in the past")
	}

	return nil
}
