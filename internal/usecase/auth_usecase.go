// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"bimeh/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	NationalID string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Password   string
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	NationalID string
	Password   string
}

// RefreshTokenInput carries the refresh token being exchanged.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token being revoked.
type LogoutInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// AuthOutput returns the token pair after registration or login.
type AuthOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshOutput returns the rotated token pair.
type RefreshOutput struct {
	AccessToken  string
	RefreshToken string
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register creates a new account and logs it in.
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Login authenticates by national ID and password.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// Refresh rotates a refresh token into a new token pair.
	Refresh(ctx context.Context, input *RefreshTokenInput) (*RefreshOutput, error)

	// Logout revokes the session behind the refresh token.
	Logout(ctx context.Context, input *LogoutInput) error

	// Me returns the profile of the authenticated account.
	Me(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}
