package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "bimeh/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func handleError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/insurance/plans", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	mw.HandleHTTPError(err, c)

	return rec
}

func TestHandleHTTPError_AppError(t *testing.T) {
	rec := handleError(t, domainerrors.ErrRegistrationNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "REGISTRATION_NOT_FOUND")
	assert.Contains(t, rec.Body.String(), domainerrors.ErrRegistrationNotFound.Message())
}

func TestHandleHTTPError_WrappedAppError(t *testing.T) {
	wrapped := errors.Wrap(domainerrors.ErrForbidden, "set status")

	rec := handleError(t, wrapped)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestHandleHTTPError_EchoHTTPError(t *testing.T) {
	rec := handleError(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "HTTP_ERROR")
}

func TestHandleHTTPError_UnknownError(t *testing.T) {
	rec := handleError(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
