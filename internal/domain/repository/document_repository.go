package repository

import (
	"context"
	"errors"

	"bimeh/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrDocumentNotFound is returned when a document does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	UserID         uuid.UUID           // Zero value means all users.
	RegistrationID uuid.UUID           // Zero value means all registrations.
	DocumentType   entity.DocumentType // Empty means all types.
	IsVerified     *bool               // Nil means both verified and unverified.
	Limit          int
	Offset         int
}

// DocumentRepository persists uploaded document metadata. File bytes
// live in blob storage and are addressed by the entity's StorageKey.
type DocumentRepository interface {
	// Create persists a new document record.
	Create(ctx context.Context, document *entity.Document) error

	// FindByID retrieves a single document.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)

	// List returns documents matching the filter, newest first,
	// together with the total count.
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Document, int64, error)

	// Update modifies an existing document record.
	Update(ctx context.Context, document *entity.Document) error

	// Delete removes a document record.
	Delete(ctx context.Context, id uuid.UUID) error
}
