package impl

import (
	"context"
	"strings"
	"testing"

	"bimeh/internal/domain/entity"
	domainerrors "bimeh/internal/domain/errors"
	mockRepo "bimeh/internal/mocks/repository"
	mockService "bimeh/internal/mocks/service"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type documentServiceMocks struct {
	txManager        *mockRepo.MockTransactionManager
	documentRepo     *mockRepo.MockDocumentRepository
	registrationRepo *mockRepo.MockRegistrationRepository
	personRepo       *mockRepo.MockPersonRepository
	fileStore        *mockService.MockFileStore
}

func newDocumentServiceForTest() (*documentService, *documentServiceMocks) {
	m := &documentServiceMocks{
		txManager:        new(mockRepo.MockTransactionManager),
		documentRepo:     new(mockRepo.MockDocumentRepository),
		registrationRepo: new(mockRepo.MockRegistrationRepository),
		personRepo:       new(mockRepo.MockPersonRepository),
		fileStore:        new(mockService.MockFileStore),
	}
	service := NewDocumentService(DocumentServiceParams{
		TxManager:        m.txManager,
		DocumentRepo:     m.documentRepo,
		RegistrationRepo: m.registrationRepo,
		PersonRepo:       m.personRepo,
		FileStore:        m.fileStore,
		Logger:           testLogger(),
	}).(*documentService)

	return service, m
}

func uploadInput() *usecase.UploadDocumentInput {
	return &usecase.UploadDocumentInput{
		DocumentType: entity.DocumentNationalID,
		Title:        "کارت ملی",
		FileName:     "card.jpg",
		FileSize:     1024,
		MimeType:     "image/jpeg",
		Content:      strings.NewReader("fake-bytes"),
	}
}

func TestDocumentService_Upload_Success(t *testing.T) {
	service, m := newDocumentServiceForTest()

	ctx := context.Background()
	userID := uuid.New()

	m.fileStore.On("Save", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "documents/"+userID.String()+"/") && strings.HasSuffix(key, ".jpg")
	}), "image/jpeg", mock.Anything).Return(nil)
	m.documentRepo.On("Create", ctx, mock.MatchedBy(func(d *entity.Document) bool {
		return d.UserID == userID && !d.IsVerified
	})).Return(nil)

	created, err := service.Upload(ctx, userID, uploadInput())

	require.NoError(t, err)
	assert.Equal(t, "card.jpg", created.FileName)
	m.fileStore.AssertExpectations(t)
	m.documentRepo.AssertExpectations(t)
}

func TestDocumentService_Upload_TooLargeRejectedBeforeStorage(t *testing.T) {
	service, m := newDocumentServiceForTest()

	input := uploadInput()
	input.FileSize = entity.MaxDocumentBytes + 1

	_, err := service.Upload(context.Background(), uuid.New(), input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDocumentTooLarge))
	m.fileStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_Upload_BadExtensionRejectedBeforeStorage(t *testing.T) {
	service, m := newDocumentServiceForTest()

	input := uploadInput()
	input.FileName = "malware.exe"

	_, err := service.Upload(context.Background(), uuid.New(), input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDocumentTypeNotAllowed))
	m.fileStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_Upload_LinkedRegistrationMustBeOwned(t *testing.T) {
	service, m := newDocumentServiceForTest()

	ctx := context.Background()
	registrationID := uuid.New()
	m.registrationRepo.On("FindByID", ctx, registrationID).
		Return(&entity.Registration{ID: registrationID, UserID: uuid.New()}, nil)

	input := uploadInput()
	input.RegistrationID = &registrationID

	_, err := service.Upload(ctx, uuid.New(), input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRegistrationNotFound))
	m.fileStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_Upload_CleansBlobOnMetadataFailure(t *testing.T) {
	service, m := newDocumentServiceForTest()

	ctx := context.Background()
	userID := uuid.New()

	m.fileStore.On("Save", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.documentRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))
	m.fileStore.On("Delete", ctx, mock.Anything).Return(nil)

	_, err := service.Upload(ctx, userID, uploadInput())

	require.Error(t, err)
	m.fileStore.AssertCalled(t, "Delete", ctx, mock.Anything)
}

func TestDocumentService_Update_VerifiedLocked(t *testing.T) {
	service, m := newDocumentServiceForTest()

	ctx := context.Background()
	userID := uuid.New()
	documentID := uuid.New()
	m.documentRepo.On("FindByID", ctx, documentID).
		Return(&entity.Document{ID: documentID, UserID: userID, IsVerified: true}, nil)

	_, err := service.Update(ctx, userID, documentID, &usecase.UpdateDocumentInput{
		DocumentType: entity.DocumentOther,
		Title:        "عنوان جدید",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	m.documentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDocumentService_Verify_RecordsActor(t *testing.T) {
	service, m := newDocumentServiceForTest()

	ctx := context.Background()
	actorID := uuid.New()
	documentID := uuid.New()
	m.documentRepo.On("FindByID", ctx, documentID).
		Return(&entity.Document{ID: documentID, UserID: uuid.New()}, nil)
	m.documentRepo.On("Update", ctx, mock.MatchedBy(func(d *entity.Document) bool {
		return d.IsVerified && d.VerifiedBy != nil && *d.VerifiedBy == actorID && d.VerifiedAt != nil
	})).Return(nil)

	verified, err := service.Verify(ctx, actorID, documentID)

	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	m.documentRepo.AssertExpectations(t)
}

func TestDocumentService_Unverify_ClearsVerification(t *testing.T) {
	service, m := newDocumentServiceForTest()

	ctx := context.Background()
	actorID := uuid.New()
	documentID := uuid.New()
	m.documentRepo.On("FindByID", ctx, documentID).
		Return(&entity.Document{ID: documentID, IsVerified: true, VerifiedBy: &actorID}, nil)
	m.documentRepo.On("Update", ctx, mock.MatchedBy(func(d *entity.Document) bool {
		return !d.IsVerified && d.VerifiedBy == nil && d.VerifiedAt == nil
	})).Return(nil)

	unverified, err := service.Unverify(ctx, documentID)

	require.NoError(t, err)
	assert.False(t, unverified.IsVerified)
}

func TestDocumentService_Delete_OwnerCannotRemoveVerified(t *testing.T) {
	service, m := newDocumentServiceForTest()

	ctx := context.Background()
	userID := uuid.New()
	documentID := uuid.New()
	m.documentRepo.On("FindByID", ctx, documentID).
		Return(&entity.Document{ID: documentID, UserID: userID, IsVerified: true}, nil)

	err := service.Delete(ctx, userID, documentID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	m.documentRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDocumentService_AdminDelete_RemovesRecordAndBlob(t *testing.T) {
	service, m := newDocumentServiceForTest()

	ctx := context.Background()
	documentID := uuid.New()
	document := &entity.Document{ID: documentID, StorageKey: "documents/x/y.pdf"}
	m.documentRepo.On("FindByID", ctx, documentID).Return(document, nil)
	m.documentRepo.On("Delete", ctx, documentID).Return(nil)
	m.fileStore.On("Delete", ctx, "documents/x/y.pdf").Return(nil)

	err := service.AdminDelete(ctx, documentID)

	require.NoError(t, err)
	m.fileStore.AssertExpectations(t)
}
