// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"
	"unicode"

	"bimeh/config"
	deliverycontext "bimeh/internal/delivery/context"
	"bimeh/internal/domain/entity"
	domainerrors "bimeh/internal/domain/errors"
	"bimeh/internal/domain/repository"
	"bimeh/internal/domain/service"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultMinPasswordLength = 8

// authService implements the AuthUsecase interface.
type authService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	passwordStrength  *config.PasswordStrengthConfig
	maxActiveSessions int
	logger            *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	maxActiveSessions := 0
	if params.Config != nil && params.Config.Auth != nil {
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
	}

	var passwordStrength *config.PasswordStrengthConfig
	if params.Config != nil {
		passwordStrength = params.Config.PasswordStrength
	}

	return &authService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		passwordStrength:  passwordStrength,
		maxActiveSessions: maxActiveSessions,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// hashToken converts a raw refresh token into the SHA-256 digest stored
// in the database. The raw token never touches persistent storage.
func hashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))

	return hex.EncodeToString(sum[:])
}

// Register creates a new account and opens its first session.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("nationalID", input.NationalID))

	if !entity.ValidNationalCode(input.NationalID) {
		return nil, errors.Wrap(domainerrors.ErrInvalidNationalID, "national id failed checksum validation")
	}
	if err := srv.validatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("nationalID", input.NationalID), slog.Any("error", err))

		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	var registeredUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		newUser := &entity.User{
			NationalID:   input.NationalID,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			Email:        input.Email,
			Phone:        input.Phone,
			PasswordHash: hashedPassword,
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user")
		}
		registeredUser = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("nationalID", input.NationalID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}

	accessToken, refreshToken, err := srv.openSession(ctx, registeredUser)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open session after registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", registeredUser.ID))

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         registeredUser,
	}, nil
}

// Login verifies credentials and opens a new session.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting login", slog.String("nationalID", input.NationalID))

	user, err := srv.userRepo.FindByNationalID(ctx, input.NationalID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "no account for national id")
		}

		return nil, errors.Wrap(err, "failed to find user by national id")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch during login", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}
	if !user.IsActive {
		return nil, errors.Wrap(domainerrors.ErrUserInactive, "account is deactivated")
	}

	accessToken, refreshToken, err := srv.openSession(ctx, user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open session during login")
	}

	srv.log(ctx).Debug("Login completed", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh rotates a refresh token and issues a fresh token pair.
func (srv *authService) Refresh(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshOutput, error) {
	claims, err := srv.tokenService.ValidateToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token failed validation")
	}
	if claims.Type != "refresh" {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "token is not a refresh token")
	}

	oldHash := hashToken(input.RefreshToken)
	stored, err := srv.refreshTokenRepo.FindByTokenHash(ctx, oldHash)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "session not found")
		}

		return nil, errors.Wrap(err, "failed to find session")
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "session expired")
	}

	user, err := srv.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "session user no longer exists")
		}

		return nil, errors.Wrap(err, "failed to find session user")
	}
	if !user.IsActive {
		return nil, errors.Wrap(domainerrors.ErrUserInactive, "account is deactivated")
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.Roles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		tokenRepo := repoFactory.NewRefreshTokenRepository()

		if err := tokenRepo.DeleteByTokenHash(ctx, oldHash); err != nil {
			return errors.Wrap(err, "failed to revoke old session")
		}

		newSession := &entity.RefreshToken{
			UserID:    user.ID,
			TokenHash: hashToken(refreshToken),
			ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
		}
		if err := tokenRepo.Create(ctx, newSession); err != nil {
			return errors.Wrap(err, "failed to store rotated session")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to rotate refresh token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute token rotation transaction")
	}

	srv.log(ctx).Debug("Refresh token rotated", slog.Any("userID", user.ID))

	return &usecase.RefreshOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout revokes the session identified by the given refresh token.
func (srv *authService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	err := srv.refreshTokenRepo.DeleteByTokenHash(ctx, hashToken(input.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "session not found")
		}

		return errors.Wrap(err, "failed to revoke session")
	}

	srv.log(ctx).Debug("Session revoked")

	return nil
}

// Me returns the authenticated user's own account.
func (srv *authService) Me(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "account not found")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// openSession issues a token pair and stores the refresh token hash,
// evicting the oldest sessions beyond the configured limit.
func (srv *authService) openSession(ctx context.Context, user *entity.User) (accessToken, refreshToken string, err error) {
	accessToken, refreshToken, err = srv.tokenService.GenerateTokens(user.ID, user.Roles().ToStrings())
	if err != nil {
		return "", "", errors.Wrap(err, "failed to generate tokens")
	}

	session := &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}
	if err := srv.refreshTokenRepo.Create(ctx, session); err != nil {
		return "", "", errors.Wrap(err, "failed to store session")
	}

	if srv.maxActiveSessions > 0 {
		count, err := srv.refreshTokenRepo.CountByUserID(ctx, user.ID)
		if err != nil {
			return "", "", errors.Wrap(err, "failed to count active sessions")
		}
		if count > int64(srv.maxActiveSessions) {
			srv.log(ctx).Warn("Active session limit reached, evicting oldest", slog.Any("userID", user.ID), slog.Int64("count", count))

			if err := srv.refreshTokenRepo.DeleteOldest(ctx, user.ID, srv.maxActiveSessions); err != nil {
				return "", "", errors.Wrap(err, "failed to evict oldest sessions")
			}
		}
	}

	return accessToken, refreshToken, nil
}

// validatePasswordStrength checks the password against the configured
// strength policy. A nil policy enforces only the minimum length.
func (srv *authService) validatePasswordStrength(password string) error {
	minLength := defaultMinPasswordLength
	if srv.passwordStrength != nil && srv.passwordStrength.MinLength > 0 {
		minLength = srv.passwordStrength.MinLength
	}
	if len(password) < minLength {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password shorter than minimum length")
	}
	if srv.passwordStrength == nil {
		return nil
	}
	if srv.passwordStrength.MaxLength > 0 && len(password) > srv.passwordStrength.MaxLength {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password exceeds maximum length")
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsNumber(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if srv.passwordStrength.RequireUppercase && !hasUpper {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password missing uppercase letter")
	}
	if srv.passwordStrength.RequireLowercase && !hasLower {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password missing lowercase letter")
	}
	if srv.passwordStrength.RequireNumbers && !hasNumber {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password missing digit")
	}
	if srv.passwordStrength.RequireSpecial && !hasSpecial {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password missing special character")
	}

	return nil
}
