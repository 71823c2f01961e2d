package usecase

import (
	"context"
	"time"

	"bimeh/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateRegistrationInput defines the data submitted with a new
// registration. PersonIDs must belong to the submitting account.
type CreateRegistrationInput struct {
	PlanID         uuid.UUID
	SchoolID       uuid.UUID
	PersonIDs      []uuid.UUID
	AdditionalInfo map[string]any
}

// SetStatusInput defines an admin status change.
type SetStatusInput struct {
	Status    entity.RegistrationStatus
	StartDate *time.Time
	EndDate   *time.Time
	Note      string
}

// ListRegistrationsInput narrows the admin registration listing.
type ListRegistrationsInput struct {
	UserID   uuid.UUID
	PlanID   uuid.UUID
	SchoolID uuid.UUID
	Status   entity.RegistrationStatus
	Page     int
	PageSize int
}

// RegistrationListOutput returns one page of registrations with the total count.
type RegistrationListOutput struct {
	Registrations []*entity.Registration
	Total         int64
}

// RegistrationUsecase covers user registration submission and the
// admin status workflow.
type RegistrationUsecase interface {
	// Create submits a new registration in the pending status.
	Create(ctx context.Context, userID uuid.UUID, input *CreateRegistrationInput) (*entity.Registration, error)

	// ListMine returns the caller's own registrations.
	ListMine(ctx context.Context, userID uuid.UUID) ([]*entity.Registration, error)

	// GetMine returns one of the caller's own registrations.
	GetMine(ctx context.Context, userID, registrationID uuid.UUID) (*entity.Registration, error)

	// Card renders the insurance-card QR PNG for an active registration
	// owned by the caller.
	Card(ctx context.Context, userID, registrationID uuid.UUID) ([]byte, error)

	// List pages through registrations. Admin only.
	List(ctx context.Context, input *ListRegistrationsInput) (*RegistrationListOutput, error)

	// Get returns any registration. Admin only.
	Get(ctx context.Context, registrationID uuid.UUID) (*entity.Registration, error)

	// SetStatus moves a registration to a new status. Forward-path
	// moves pass silently; any other pair is applied as an override and
	// flagged on the audit stream. Admin only.
	SetStatus(ctx context.Context, actorID, registrationID uuid.UUID, input *SetStatusInput) (*entity.Registration, error)
}
