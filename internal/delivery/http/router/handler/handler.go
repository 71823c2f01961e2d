// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"bimeh/internal/delivery/http/middleware"
	"bimeh/internal/delivery/http/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}

// currentUserID extracts the authenticated account id set by the auth
// middleware.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, response.Unauthorized(c, "INVALID_TOKEN", "شناسه کاربر در توکن یافت نشد")
	}

	return userID, nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, response.BadRequest(c, "INVALID_ID", "شناسه نامعتبر است")
	}

	return id, nil
}

// queryUUID parses an optional UUID query parameter. Absent values
// return uuid.Nil.
func queryUUID(c echo.Context, name string) (uuid.UUID, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return uuid.Nil, true
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}
