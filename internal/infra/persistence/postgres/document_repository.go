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

// documentRepository implements the domain.DocumentRepository interface.
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository is the constructor for documentRepository.
func NewDocumentRepository(db *gorm.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

// Create persists a new document record.
func (repo *documentRepository) Create(ctx context.Context, document *entity.Document) error {
	documentM := fromDocumentDomain(document)

	if err := repo.db.WithContext(ctx).Create(documentM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("storage key already in use")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid user, registration or person reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create document")
	}

	document.ID = documentM.ID
	document.CreatedAt = documentM.CreatedAt
	document.UpdatedAt = documentM.UpdatedAt

	return nil
}

// FindByID retrieves a single document.
func (repo *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	var documentM model.DocumentModel
	if err := repo.db.WithContext(ctx).First(&documentM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDocumentNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toDocumentDomain(&documentM), nil
}

// List returns documents matching the filter, newest first, with the total count.
func (repo *documentRepository) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Document, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.DocumentModel{})

	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.RegistrationID != uuid.Nil {
		query = query.Where("registration_id = ?", filter.RegistrationID)
	}
	if filter.DocumentType != "" {
		query = query.Where("document_type = ?", filter.DocumentType.String())
	}
	if filter.IsVerified != nil {
		query = query.Where("is_verified = ?", *filter.IsVerified)
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

	var documentModels []model.DocumentModel
	if err := query.Order("created_at DESC").Find(&documentModels).Error; err != nil {
		return nil, 0, errors.WithStack(err)
	}

	documents := make([]*entity.Document, 0, len(documentModels))
	for i := range documentModels {
		documents = append(documents, toDocumentDomain(&documentModels[i]))
	}

	return documents, total, nil
}

// Update modifies an existing document record.
func (repo *documentRepository) Update(ctx context.Context, document *entity.Document) error {
	result := repo.db.WithContext(ctx).Model(&model.DocumentModel{}).
		Where("id = ?", document.ID).
		Updates(map[string]any{
			"document_type":   document.DocumentType.String(),
			"title":           document.Title,
			"description":     document.Description,
			"registration_id": document.RegistrationID,
			"person_id":       document.PersonID,
			"is_verified":     document.IsVerified,
			"verified_by":     document.VerifiedBy,
			"verified_at":     document.VerifiedAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update document")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDocumentNotFound
	}

	return nil
}

// Delete removes a document record.
func (repo *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.DocumentModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete document")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDocumentNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toDocumentDomain converts a GORM DocumentModel to a domain Document entity.
func toDocumentDomain(data *model.DocumentModel) *entity.Document {
	if data == nil {
		return nil
	}

	return &entity.Document{
		ID:             data.ID,
		UserID:         data.UserID,
		DocumentType:   entity.DocumentType(data.DocumentType),
		Title:          data.Title,
		Description:    data.Description,
		StorageKey:     data.StorageKey,
		FileName:       data.FileName,
		FileSize:       data.FileSize,
		MimeType:       data.MimeType,
		RegistrationID: data.RegistrationID,
		PersonID:       data.PersonID,
		IsVerified:     data.IsVerified,
		VerifiedBy:     data.VerifiedBy,
		VerifiedAt:     data.VerifiedAt,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromDocumentDomain converts a domain Document entity to a GORM DocumentModel.
func fromDocumentDomain(data *entity.Document) *model.DocumentModel {
	if data == nil {
		return nil
	}

	return &model.DocumentModel{
		ID:             data.ID,
		UserID:         data.UserID,
		DocumentType:   data.DocumentType.String(),
		Title:          data.Title,
		Description:    data.Description,
		StorageKey:     data.StorageKey,
		FileName:       data.FileName,
		FileSize:       data.FileSize,
		MimeType:       data.MimeType,
		RegistrationID: data.RegistrationID,
		PersonID:       data.PersonID,
		IsVerified:     data.IsVerified,
		VerifiedBy:     data.VerifiedBy,
		VerifiedAt:     data.VerifiedAt,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
