package usecase

import (
	"context"
	"time"

	"bimeh/internal/domain/entity"

	"github.com/google/uuid"
)

// PersonInput defines the data for creating or updating a covered person.
type PersonInput struct {
	FirstName    string
	LastName     string
	NationalCode string
	BirthDate    time.Time
	Relation     entity.Relation
}

// ListPersonsInput narrows the admin person listing.
type ListPersonsInput struct {
	UserID   uuid.UUID
	Relation entity.Relation
	Search   string
	Page     int
	PageSize int
}

// PersonListOutput returns one page of persons with the total count.
type PersonListOutput struct {
	Persons []*entity.Person
	Total   int64
}

// PersonUsecase manages the covered persons attached to an account.
type PersonUsecase interface {
	// ListMine returns the caller's covered persons.
	ListMine(ctx context.Context, userID uuid.UUID) ([]*entity.Person, error)

	// GetMine returns one of the caller's covered persons.
	GetMine(ctx context.Context, userID, personID uuid.UUID) (*entity.Person, error)

	// Create adds a covered person to the caller's account.
	Create(ctx context.Context, userID uuid.UUID, input *PersonInput) (*entity.Person, error)

	// Update changes one of the caller's covered persons.
	Update(ctx context.Context, userID, personID uuid.UUID, input *PersonInput) (*entity.Person, error)

	// Delete removes one of the caller's covered persons. Persons
	// referenced by a registration cannot be removed.
	Delete(ctx context.Context, userID, personID uuid.UUID) error

	// List pages through all persons. Admin only.
	List(ctx context.Context, input *ListPersonsInput) (*PersonListOutput, error)
}
