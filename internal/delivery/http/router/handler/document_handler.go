package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"bimeh/internal/delivery/http/response"
	"bimeh/internal/domain/entity"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// DocumentHandlerParams holds dependencies for DocumentHandler,
// injected by Fx.
type DocumentHandlerParams struct {
	fx.In

	DocumentUC usecase.DocumentUsecase
	Logger     *slog.Logger
}

// DocumentHandler manages uploaded supporting documents and their
// verification workflow.
type DocumentHandler struct {
	documentUC usecase.DocumentUsecase
	logger     *slog.Logger
}

// NewDocumentHandler is the constructor for DocumentHandler.
func NewDocumentHandler(params DocumentHandlerParams) *DocumentHandler {
	return &DocumentHandler{
		documentUC: params.DocumentUC,
		logger:     params.Logger,
	}
}

// UpdateDocumentRequest changes the editable metadata of a document.
type UpdateDocumentRequest struct {
	DocumentType string `json:"document_type" validate:"required"`
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
}

// Upload stores a multipart file upload for the caller's account.
// Fields: file, document_type, title, description, registration_id,
// person_id.
func (h *DocumentHandler) Upload(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "MISSING_FILE", "فایل پیوست الزامی است")
	}

	input := &usecase.UploadDocumentInput{
		DocumentType: entity.DocumentType(c.FormValue("document_type")),
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
		FileName:     fileHeader.Filename,
		FileSize:     fileHeader.Size,
		MimeType:     fileHeader.Header.Get(echo.HeaderContentType),
	}

	if raw := c.FormValue("registration_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_ID", "شناسه ثبت‌نام نامعتبر است")
		}
		input.RegistrationID = &id
	}
	if raw := c.FormValue("person_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_ID", "شناسه فرد نامعتبر است")
		}
		input.PersonID = &id
	}

	src, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded file")
	}
	defer src.Close()
	input.Content = src

	document, err := h.documentUC.Upload(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, document, "مدرک با موفقیت بارگذاری شد")
}

// ListMine returns the caller's documents.
func (h *DocumentHandler) ListMine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	documents, err := h.documentUC.ListMine(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, documents, "")
}

// GetMine returns one of the caller's documents.
func (h *DocumentHandler) GetMine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	document, err := h.documentUC.GetMine(c.Request().Context(), userID, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, document, "")
}

// Update changes metadata on one of the caller's documents.
func (h *DocumentHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "اطلاعات مدرک نامعتبر است")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "اطلاعات مدرک ناقص است")
	}

	document, err := h.documentUC.Update(c.Request().Context(), userID, id, &usecase.UpdateDocumentInput{
		DocumentType: entity.DocumentType(req.DocumentType),
		Title:        req.Title,
		Description:  req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, document, "مدرک با موفقیت به‌روزرسانی شد")
}

// Download streams one of the caller's documents.
func (h *DocumentHandler) Download(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	download, err := h.documentUC.Download(c.Request().Context(), userID, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return h.streamDownload(c, download)
}

// Delete removes one of the caller's documents and its stored file.
func (h *DocumentHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.documentUC.Delete(c.Request().Context(), userID, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "مدرک حذف شد")
}

// List pages through all documents for admins.
func (h *DocumentHandler) List(c echo.Context) error {
	input := &usecase.ListDocumentsInput{
		DocumentType: entity.DocumentType(c.QueryParam("type")),
		Page:         queryInt(c, "page"),
		PageSize:     queryInt(c, "page_size"),
	}

	var ok bool
	if input.UserID, ok = queryUUID(c, "user_id"); !ok {
		return response.BadRequest(c, "INVALID_FILTER", "شناسه کاربر نامعتبر است")
	}
	if input.RegistrationID, ok = queryUUID(c, "registration_id"); !ok {
		return response.BadRequest(c, "INVALID_FILTER", "شناسه ثبت‌نام نامعتبر است")
	}
	if raw := c.QueryParam("is_verified"); raw != "" {
		verified, err := strconv.ParseBool(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_FILTER", "مقدار فیلتر تأیید نامعتبر است")
		}
		input.IsVerified = &verified
	}

	output, err := h.documentUC.List(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"documents": output.Documents,
		"total":     output.Total,
	}, "")
}

// Verify marks a document as checked by the acting admin.
func (h *DocumentHandler) Verify(c echo.Context) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	document, err := h.documentUC.Verify(c.Request().Context(), actorID, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, document, "مدرک تأیید شد")
}

// Unverify clears a document's verification.
func (h *DocumentHandler) Unverify(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	document, err := h.documentUC.Unverify(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, document, "تأیید مدرک لغو شد")
}

// AdminDownload streams any document.
func (h *DocumentHandler) AdminDownload(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	download, err := h.documentUC.AdminDownload(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return h.streamDownload(c, download)
}

// AdminDelete removes any document and its stored file.
func (h *DocumentHandler) AdminDelete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.documentUC.AdminDelete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "مدرک حذف شد")
}

func (h *DocumentHandler) streamDownload(c echo.Context, download *usecase.DocumentDownload) error {
	defer download.Content.Close()

	mimeType := download.Document.MimeType
	if mimeType == "" {
		mimeType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, download.Document.FileName))

	return c.Stream(http.StatusOK, mimeType, download.Content)
}
