package repository

import (
	"context"
	"errors"

	"bimeh/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPersonNotFound is returned when a covered person does not exist.
var ErrPersonNotFound = errors.New("person not found")

// PersonFilter narrows admin person listings.
type PersonFilter struct {
	UserID   uuid.UUID       // Zero value means all users.
	Relation entity.Relation // Empty means all relations.
	Search   string          // Matches name or national code.
	Limit    int
	Offset   int
}

// PersonRepository persists covered family members.
type PersonRepository interface {
	// ListByUser returns a user's persons, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Person, error)

	// FindByID retrieves a single person.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Person, error)

	// FindByIDs retrieves persons by their IDs; missing IDs are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Person, error)

	// Create persists a new person.
	Create(ctx context.Context, person *entity.Person) error

	// Update modifies an existing person.
	Update(ctx context.Context, person *entity.Person) error

	// Delete removes a person.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByNationalCode reports whether the user already has a person
	// with this national code, excluding excludeID when non-zero.
	ExistsByNationalCode(ctx context.Context, userID uuid.UUID, nationalCode string, excludeID uuid.UUID) (bool, error)

	// List returns persons matching the filter together with the total count.
	List(ctx context.Context, filter PersonFilter) ([]*entity.Person, int64, error)
}
