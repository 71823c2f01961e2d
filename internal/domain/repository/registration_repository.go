package repository

import (
	"context"
	"errors"

	"bimeh/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRegistrationNotFound is returned when a registration does not exist.
var ErrRegistrationNotFound = errors.New("registration not found")

// RegistrationFilter narrows admin registration listings.
type RegistrationFilter struct {
	UserID   uuid.UUID                 // Zero value means all users.
	PlanID   uuid.UUID                 // Zero value means all plans.
	SchoolID uuid.UUID                 // Zero value means all schools.
	Status   entity.RegistrationStatus // Empty means all statuses.
	Limit    int
	Offset   int
}

// RegistrationRepository persists insurance registrations and their
// links to covered persons.
type RegistrationRepository interface {
	// Create persists a new registration together with its person links.
	Create(ctx context.Context, registration *entity.Registration) error

	// FindByID retrieves a single registration with its person links.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Registration, error)

	// ListByUser returns a user's registrations, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Registration, error)

	// List returns registrations matching the filter, newest first,
	// together with the total count.
	List(ctx context.Context, filter RegistrationFilter) ([]*entity.Registration, int64, error)

	// Update modifies an existing registration, replacing its person links.
	Update(ctx context.Context, registration *entity.Registration) error

	// HasOngoing reports whether the user already has a registration in
	// a non-terminal status.
	HasOngoing(ctx context.Context, userID uuid.UUID) (bool, error)
}
