package usecase

import (
	"context"

	"bimeh/internal/domain/entity"
	"bimeh/internal/domain/repository"

	"github.com/google/uuid"
)

// UpdateProfileInput defines the editable profile fields.
type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// ListUsersInput narrows the admin user listing.
type ListUsersInput struct {
	Search   string
	IsActive *bool
	Page     int
	PageSize int
}

// UserListOutput returns one page of accounts with the total count.
type UserListOutput struct {
	Users []*entity.User
	Total int64
}

// ProfileUsecase covers account profile operations and the admin
// account directory.
type ProfileUsecase interface {
	// UpdateProfile modifies the caller's own profile.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)

	// ListUsers pages through accounts. Admin only.
	ListUsers(ctx context.Context, input *ListUsersInput) (*UserListOutput, error)

	// GetUser loads a single account. Admin only.
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// SetUserActive enables or disables an account. Admin only.
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) (*entity.User, error)
}

// ToFilter converts the listing input to the repository filter.
func (in *ListUsersInput) ToFilter() repository.UserFilter {
	page := in.Page
	if page < 1 {
		page = 1
	}
	pageSize := in.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return repository.UserFilter{
		Search:   in.Search,
		IsActive: in.IsActive,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}
}
