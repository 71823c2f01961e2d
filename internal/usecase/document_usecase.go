package usecase

import (
	"context"
	"io"

	"bimeh/internal/domain/entity"

	"github.com/google/uuid"
)

// UploadDocumentInput carries an uploaded file and its metadata.
// Content is read fully during the upload; the caller owns closing it.
type UploadDocumentInput struct {
	DocumentType   entity.DocumentType
	Title          string
	Description    string
	FileName       string
	FileSize       int64
	MimeType       string
	RegistrationID *uuid.UUID
	PersonID       *uuid.UUID
	Content        io.Reader
}

// UpdateDocumentInput changes the editable metadata of a document.
type UpdateDocumentInput struct {
	DocumentType entity.DocumentType
	Title        string
	Description  string
}

// ListDocumentsInput narrows the admin document listing.
type ListDocumentsInput struct {
	UserID         uuid.UUID
	RegistrationID uuid.UUID
	DocumentType   entity.DocumentType
	IsVerified     *bool
	Page           int
	PageSize       int
}

// DocumentListOutput returns one page of documents with the total count.
type DocumentListOutput struct {
	Documents []*entity.Document
	Total     int64
}

// DocumentDownload bundles a stored file's stream with the metadata a
// handler needs to serve it. The caller must close Content.
type DocumentDownload struct {
	Document *entity.Document
	Content  io.ReadCloser
}

// DocumentUsecase manages uploaded supporting documents and their
// verification workflow.
type DocumentUsecase interface {
	// Upload stores a new document for the caller's account.
	Upload(ctx context.Context, userID uuid.UUID, input *UploadDocumentInput) (*entity.Document, error)

	// ListMine returns the caller's documents.
	ListMine(ctx context.Context, userID uuid.UUID) ([]*entity.Document, error)

	// GetMine returns one of the caller's documents.
	GetMine(ctx context.Context, userID, documentID uuid.UUID) (*entity.Document, error)

	// Update changes metadata on one of the caller's documents.
	// Verified documents are locked against edits.
	Update(ctx context.Context, userID, documentID uuid.UUID, input *UpdateDocumentInput) (*entity.Document, error)

	// Download streams one of the caller's documents.
	Download(ctx context.Context, userID, documentID uuid.UUID) (*DocumentDownload, error)

	// Delete removes one of the caller's documents and its stored file.
	// Verified documents cannot be deleted by their owner.
	Delete(ctx context.Context, userID, documentID uuid.UUID) error

	// List pages through all documents. Admin only.
	List(ctx context.Context, input *ListDocumentsInput) (*DocumentListOutput, error)

	// Verify marks a document as checked by the acting admin.
	Verify(ctx context.Context, actorID, documentID uuid.UUID) (*entity.Document, error)

	// Unverify clears a document's verification. Admin only.
	Unverify(ctx context.Context, documentID uuid.UUID) (*entity.Document, error)

	// AdminDownload streams any document. Admin only.
	AdminDownload(ctx context.Context, documentID uuid.UUID) (*DocumentDownload, error)

	// AdminDelete removes any document and its stored file. Admin only.
	AdminDelete(ctx context.Context, documentID uuid.UUID) error
}
