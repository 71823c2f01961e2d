package impl

import (
	"context"
	"log/slog"

	deliverycontext "bimeh/internal/delivery/context"
	"bimeh/internal/domain/entity"
	domainerrors "bimeh/internal/domain/errors"
	"bimeh/internal/domain/repository"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	logger    *slog.Logger
}

// ProfileServiceParams holds dependencies for profileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Logger    *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		logger:    params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// UpdateProfile modifies the caller's own profile. Empty fields are
// left unchanged; the national id and admin flags are not editable here.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	srv.log(ctx).Info("Updating profile", slog.Any("userID", userID))

	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "account not found")
			}

			return errors.Wrap(err, "failed to find user")
		}

		if input.FirstName != "" {
			user.FirstName = input.FirstName
		}
		if input.LastName != "" {
			user.LastName = input.LastName
		}
		if input.Email != "" {
			user.Email = input.Email
		}
		if input.Phone != "" {
			user.Phone = input.Phone
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update user")
		}
		updated = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update profile", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute profile update transaction")
	}

	return updated, nil
}

// ListUsers pages through accounts for the admin directory.
func (srv *profileService) ListUsers(ctx context.Context, input *usecase.ListUsersInput) (*usecase.UserListOutput, error) {
	users, total, err := srv.userRepo.List(ctx, input.ToFilter())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return &usecase.UserListOutput{Users: users, Total: total}, nil
}

// GetUser loads a single account.
func (srv *profileService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "account not found")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// SetUserActive enables or disables an account. Disabling also revokes
// every active session for the account.
func (srv *profileService) SetUserActive(ctx context.Context, id uuid.UUID, active bool) (*entity.User, error) {
	srv.log(ctx).Info("Setting account active flag", slog.Any("userID", id), slog.Bool("active", active))

	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		user, err := userRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "account not found")
			}

			return errors.Wrap(err, "failed to find user")
		}

		user.IsActive = active
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update user")
		}

		if !active {
			tokenRepo := repoFactory.NewRefreshTokenRepository()
			if err := tokenRepo.DeleteByUserID(ctx, id); err != nil {
				return errors.Wrap(err, "failed to revoke sessions")
			}
		}
		updated = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to set account active flag", slog.Any("userID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute account activation transaction")
	}

	return updated, nil
}
