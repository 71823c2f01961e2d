package repository

import (
	"context"
	"errors"

	"bimeh/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRefreshTokenNotFound is returned when no refresh token matches the lookup.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository defines persistence for login sessions. Tokens
// are stored hashed; lookups always go through the hash.
type RefreshTokenRepository interface {
	// Create persists a new refresh token record.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindByTokenHash retrieves a refresh token by its SHA-256 hash.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// DeleteByTokenHash removes a single session, e.g. on logout or rotation.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteByUserID removes every session of a user.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired removes sessions whose expiry has passed.
	DeleteExpired(ctx context.Context, userID uuid.UUID) error

	// CountByUserID returns the number of live sessions for a user.
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	// DeleteOldest removes the user's oldest sessions, keeping at most keep.
	DeleteOldest(ctx context.Context, userID uuid.UUID, keep int) error
}
