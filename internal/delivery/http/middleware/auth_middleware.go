// Package middleware holds the Echo middleware of the HTTP delivery.
package middleware

import (
	"slices"

	"bimeh/internal/delivery/http/response"
	"bimeh/internal/domain/entity"
	"bimeh/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyUserID is where Authenticate stores the caller's account id.
	ContextKeyUserID = "userID"
	// ContextKeyRoles is where Authenticate stores the caller's roles.
	ContextKeyRoles = "roles"

	bearerPrefix = "Bearer "
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer access token and stores the
// caller's identity on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "برای دسترسی به این بخش ابتدا وارد شوید")
		}

		if len(authHeader) <= len(bearerPrefix) || authHeader[:len(bearerPrefix)] != bearerPrefix {
			return response.Unauthorized(c, "INVALID_TOKEN_FORMAT", "قالب توکن نامعتبر است")
		}
		tokenString := authHeader[len(bearerPrefix):]

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "توکن نامعتبر یا منقضی شده است")
		}

		// Refresh tokens must not open protected routes.
		if claims.Type != "access" {
			return response.Unauthorized(c, "INVALID_TOKEN", "توکن نامعتبر یا منقضی شده است")
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRoles, claims.Roles)

		return next(c)
	}
}

// RequireRole checks that the authenticated caller carries a role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, ok := c.Get(ContextKeyRoles).([]string)
			if !ok || !slices.Contains(roles, requiredRole) {
				return response.Forbidden(c, "FORBIDDEN", "شما اجازه دسترسی به این بخش را ندارید")
			}

			return next(c)
		}
	}
}

// RequireAdmin guards the /admin route groups.
func (m *AuthMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return m.RequireRole(entity.RoleAdmin.String())
}
