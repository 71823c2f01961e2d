package impl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"bimeh/config"
	deliverycontext "bimeh/internal/delivery/context"
	"bimeh/internal/domain/entity"
	domainerrors "bimeh/internal/domain/errors"
	"bimeh/internal/domain/repository"
	"bimeh/internal/domain/service"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// documentService implements the DocumentUsecase interface.
type documentService struct {
	txManager        repository.TransactionManager
	documentRepo     repository.DocumentRepository
	registrationRepo repository.RegistrationRepository
	personRepo       repository.PersonRepository
	fileStore        service.FileStore
	maxUploadBytes   int64
	logger           *slog.Logger
}

// DocumentServiceParams holds dependencies for documentService, injected by Fx.
type DocumentServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	DocumentRepo     repository.DocumentRepository
	RegistrationRepo repository.RegistrationRepository
	PersonRepo       repository.PersonRepository
	FileStore        service.FileStore
	Config           *config.Config
	Logger           *slog.Logger
}

// NewDocumentService is the constructor for documentService.
func NewDocumentService(params DocumentServiceParams) usecase.DocumentUsecase {
	maxUploadBytes := entity.MaxDocumentBytes
	if params.Config != nil && params.Config.Document != nil && params.Config.Document.MaxUploadBytes > 0 {
		maxUploadBytes = params.Config.Document.MaxUploadBytes
	}

	return &documentService{
		txManager:        params.TxManager,
		documentRepo:     params.DocumentRepo,
		registrationRepo: params.RegistrationRepo,
		personRepo:       params.PersonRepo,
		fileStore:        params.FileStore,
		maxUploadBytes:   maxUploadBytes,
		logger:           params.Logger,
	}
}

func (srv *documentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Upload validates and stores a new document. Size and extension are
// rejected before any storage write.
func (srv *documentService) Upload(ctx context.Context, userID uuid.UUID, input *usecase.UploadDocumentInput) (*entity.Document, error) {
	if !input.DocumentType.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown document type")
	}
	if input.Title == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "document title is required")
	}
	if input.FileSize <= 0 || input.Content == nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "uploaded file is empty")
	}
	if input.FileSize > srv.maxUploadBytes {
		return nil, errors.Wrap(domainerrors.ErrDocumentTooLarge, "uploaded file exceeds the size limit")
	}
	if !entity.AllowedDocumentExtension(input.FileName) {
		return nil, errors.Wrap(domainerrors.ErrDocumentTypeNotAllowed, "file extension not accepted")
	}

	if err := srv.verifyLinks(ctx, userID, input.RegistrationID, input.PersonID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(input.FileName))
	storageKey := fmt.Sprintf("documents/%s/%s%s", userID, uuid.New(), ext)

	srv.log(ctx).Info("Uploading document", slog.Any("userID", userID), slog.String("storageKey", storageKey), slog.Int64("size", input.FileSize))

	if err := srv.fileStore.Save(ctx, storageKey, input.MimeType, input.Content); err != nil {
		return nil, errors.Wrap(err, "failed to store uploaded file")
	}

	document := &entity.Document{
		UserID:         userID,
		DocumentType:   input.DocumentType,
		Title:          input.Title,
		Description:    input.Description,
		StorageKey:     storageKey,
		FileName:       input.FileName,
		FileSize:       input.FileSize,
		MimeType:       input.MimeType,
		RegistrationID: input.RegistrationID,
		PersonID:       input.PersonID,
	}
	if err := srv.documentRepo.Create(ctx, document); err != nil {
		// Best effort: don't leave an orphaned blob behind.
		if cleanupErr := srv.fileStore.Delete(ctx, storageKey); cleanupErr != nil {
			srv.log(ctx).Error("Failed to clean up blob after metadata failure", slog.String("storageKey", storageKey), slog.Any("error", cleanupErr))
		}

		return nil, errors.Wrap(err, "failed to create document record")
	}

	return document, nil
}

// ListMine returns the caller's documents.
func (srv *documentService) ListMine(ctx context.Context, userID uuid.UUID) ([]*entity.Document, error) {
	documents, _, err := srv.documentRepo.List(ctx, repository.DocumentFilter{UserID: userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}

	return documents, nil
}

// GetMine returns one of the caller's documents.
func (srv *documentService) GetMine(ctx context.Context, userID, documentID uuid.UUID) (*entity.Document, error) {
	return srv.findOwned(ctx, userID, documentID)
}

// Update changes metadata on one of the caller's documents. Verified
// documents are locked.
func (srv *documentService) Update(ctx context.Context, userID, documentID uuid.UUID, input *usecase.UpdateDocumentInput) (*entity.Document, error) {
	if !input.DocumentType.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown document type")
	}
	if input.Title == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "document title is required")
	}

	document, err := srv.findOwned(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if document.IsVerified {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "verified documents cannot be edited")
	}

	document.DocumentType = input.DocumentType
	document.Title = input.Title
	document.Description = input.Description
	if err := srv.documentRepo.Update(ctx, document); err != nil {
		return nil, errors.Wrap(err, "failed to update document")
	}

	return document, nil
}

// Download streams one of the caller's documents.
func (srv *documentService) Download(ctx context.Context, userID, documentID uuid.UUID) (*usecase.DocumentDownload, error) {
	document, err := srv.findOwned(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}

	return srv.openDownload(ctx, document)
}

// Delete removes one of the caller's documents and its stored file.
func (srv *documentService) Delete(ctx context.Context, userID, documentID uuid.UUID) error {
	document, err := srv.findOwned(ctx, userID, documentID)
	if err != nil {
		return err
	}
	if document.IsVerified {
		return errors.Wrap(domainerrors.ErrForbidden, "verified documents cannot be deleted")
	}

	return srv.remove(ctx, document)
}

// List pages through all documents for the admin console.
func (srv *documentService) List(ctx context.Context, input *usecase.ListDocumentsInput) (*usecase.DocumentListOutput, error) {
	if input.DocumentType != "" && !input.DocumentType.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown document type")
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	documents, total, err := srv.documentRepo.List(ctx, repository.DocumentFilter{
		UserID:         input.UserID,
		RegistrationID: input.RegistrationID,
		DocumentType:   input.DocumentType,
		IsVerified:     input.IsVerified,
		Limit:          pageSize,
		Offset:         (page - 1) * pageSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}

	return &usecase.DocumentListOutput{Documents: documents, Total: total}, nil
}

// Verify marks a document as checked by the acting admin.
func (srv *documentService) Verify(ctx context.Context, actorID, documentID uuid.UUID) (*entity.Document, error) {
	srv.log(ctx).Info("Verifying document", slog.Any("documentID", documentID), slog.Any("actorID", actorID))

	document, err := srv.findAny(ctx, documentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	document.IsVerified = true
	document.VerifiedBy = &actorID
	document.VerifiedAt = &now
	if err := srv.documentRepo.Update(ctx, document); err != nil {
		return nil, errors.Wrap(err, "failed to verify document")
	}

	return document, nil
}

// Unverify clears a document's verification.
func (srv *documentService) Unverify(ctx context.Context, documentID uuid.UUID) (*entity.Document, error) {
	srv.log(ctx).Info("Unverifying document", slog.Any("documentID", documentID))

	document, err := srv.findAny(ctx, documentID)
	if err != nil {
		return nil, err
	}

	document.IsVerified = false
	document.VerifiedBy = nil
	document.VerifiedAt = nil
	if err := srv.documentRepo.Update(ctx, document); err != nil {
		return nil, errors.Wrap(err, "failed to unverify document")
	}

	return document, nil
}

// AdminDownload streams any document.
func (srv *documentService) AdminDownload(ctx context.Context, documentID uuid.UUID) (*usecase.DocumentDownload, error) {
	document, err := srv.findAny(ctx, documentID)
	if err != nil {
		return nil, err
	}

	return srv.openDownload(ctx, document)
}

// AdminDelete removes any document and its stored file.
func (srv *documentService) AdminDelete(ctx context.Context, documentID uuid.UUID) error {
	document, err := srv.findAny(ctx, documentID)
	if err != nil {
		return err
	}

	return srv.remove(ctx, document)
}

func (srv *documentService) findAny(ctx context.Context, documentID uuid.UUID) (*entity.Document, error) {
	document, err := srv.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, errors.Wrap(domainerrors.ErrDocumentNotFound, "document not found")
		}

		return nil, errors.Wrap(err, "failed to find document")
	}

	return document, nil
}

// findOwned loads a document and verifies it belongs to the user. A
// document owned by someone else is reported as not found.
func (srv *documentService) findOwned(ctx context.Context, userID, documentID uuid.UUID) (*entity.Document, error) {
	document, err := srv.findAny(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if document.UserID != userID {
		return nil, errors.Wrap(domainerrors.ErrDocumentNotFound, "document belongs to another account")
	}

	return document, nil
}

func (srv *documentService) openDownload(ctx context.Context, document *entity.Document) (*usecase.DocumentDownload, error) {
	content, err := srv.fileStore.Open(ctx, document.StorageKey)
	if err != nil {
		srv.log(ctx).Error("Failed to open stored file", slog.String("storageKey", document.StorageKey), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to open stored file")
	}

	return &usecase.DocumentDownload{Document: document, Content: content}, nil
}

// remove deletes the metadata row first, then the blob. A blob delete
// failure is logged and swallowed; the record is already gone.
func (srv *documentService) remove(ctx context.Context, document *entity.Document) error {
	srv.log(ctx).Info("Deleting document", slog.Any("documentID", document.ID))

	if err := srv.documentRepo.Delete(ctx, document.ID); err != nil {
		return errors.Wrap(err, "failed to delete document record")
	}
	if err := srv.fileStore.Delete(ctx, document.StorageKey); err != nil {
		srv.log(ctx).Error("Failed to delete stored file", slog.String("storageKey", document.StorageKey), slog.Any("error", err))
	}

	return nil
}

// verifyLinks checks that optional registration/person links point at
// records owned by the uploader.
func (srv *documentService) verifyLinks(ctx context.Context, userID uuid.UUID, registrationID, personID *uuid.UUID) error {
	if registrationID != nil {
		registration, err := srv.registrationRepo.FindByID(ctx, *registrationID)
		if err != nil {
			if errors.Is(err, repository.ErrRegistrationNotFound) {
				return errors.Wrap(domainerrors.ErrRegistrationNotFound, "linked registration not found")
			}

			return errors.Wrap(err, "failed to find linked registration")
		}
		if !registration.IsOwnedBy(userID) {
			return errors.Wrap(domainerrors.ErrRegistrationNotFound, "linked registration belongs to another account")
		}
	}

	if personID != nil {
		person, err := srv.personRepo.FindByID(ctx, *personID)
		if err != nil {
			if errors.Is(err, repository.ErrPersonNotFound) {
				return errors.Wrap(domainerrors.ErrPersonNotFound, "linked person not found")
			}

			return errors.Wrap(err, "failed to find linked person")
		}
		if person.UserID != userID {
			return errors.Wrap(domainerrors.ErrPersonNotFound, "linked person belongs to another account")
		}
	}

	return nil
}
