package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"bimeh/config"
	"bimeh/internal/domain/entity"
	domainerrors "bimeh/internal/domain/errors"
	"bimeh/internal/domain/repository"
	domainservice "bimeh/internal/domain/service"
	mockRepo "bimeh/internal/mocks/repository"
	mockService "bimeh/internal/mocks/service"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// validNationalID passes the Iranian national code checksum.
const validNationalID = "1234567891"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthServiceForTest(
	txManager *mockRepo.MockTransactionManager,
	userRepo *mockRepo.MockUserRepository,
	tokenRepo *mockRepo.MockRefreshTokenRepository,
	hasher *mockService.MockPasswordHasher,
	tokenService *mockService.MockTokenService,
	cfg *config.Config,
) *authService {
	return NewAuthService(AuthServiceParams{
		TxManager:        txManager,
		UserRepo:         userRepo,
		RefreshTokenRepo: tokenRepo,
		Hasher:           hasher,
		TokenService:     tokenService,
		Config:           cfg,
		Logger:           testLogger(),
	}).(*authService)
}

func TestAuthService_Login_Success(t *testing.T) {
	txManager := new(mockRepo.MockTransactionManager)
	userRepo := new(mockRepo.MockUserRepository)
	tokenRepo := new(mockRepo.MockRefreshTokenRepository)
	hasher := new(mockService.MockPasswordHasher)
	tokenService := new(mockService.MockTokenService)
	service := newAuthServiceForTest(txManager, userRepo, tokenRepo, hasher, tokenService, nil)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID, NationalID: validNationalID, PasswordHash: "hashed", IsActive: true}

	userRepo.On("FindByNationalID", ctx, validNationalID).Return(user, nil)
	hasher.On("Check", "secret-pass", "hashed").Return(true)
	tokenService.On("GenerateTokens", userID, []string{"user"}).Return("access", "refresh", nil)
	tokenService.On("GetRefreshTokenDuration").Return(24 * time.Hour)
	tokenRepo.On("Create", ctx, mock.AnythingOfType("*entity.RefreshToken")).Return(nil)

	out, err := service.Login(ctx, &usecase.LoginInput{NationalID: validNationalID, Password: "secret-pass"})

	require.NoError(t, err)
	assert.Equal(t, "access", out.AccessToken)
	assert.Equal(t, "refresh", out.RefreshToken)
	assert.Equal(t, userID, out.User.ID)
	tokenRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	txManager := new(mockRepo.MockTransactionManager)
	userRepo := new(mockRepo.MockUserRepository)
	tokenRepo := new(mockRepo.MockRefreshTokenRepository)
	hasher := new(mockService.MockPasswordHasher)
	tokenService := new(mockService.MockTokenService)
	service := newAuthServiceForTest(txManager, userRepo, tokenRepo, hasher, tokenService, nil)

	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), NationalID: validNationalID, PasswordHash: "hashed", IsActive: true}

	userRepo.On("FindByNationalID", ctx, validNationalID).Return(user, nil)
	hasher.On("Check", "wrong", "hashed").Return(false)

	out, err := service.Login(ctx, &usecase.LoginInput{NationalID: validNationalID, Password: "wrong"})

	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Login_UnknownAccount(t *testing.T) {
	txManager := new(mockRepo.MockTransactionManager)
	userRepo := new(mockRepo.MockUserRepository)
	tokenRepo := new(mockRepo.MockRefreshTokenRepository)
	hasher := new(mockService.MockPasswordHasher)
	tokenService := new(mockService.MockTokenService)
	service := newAuthServiceForTest(txManager, userRepo, tokenRepo, hasher, tokenService, nil)

	ctx := context.Background()
	userRepo.On("FindByNationalID", ctx, validNationalID).Return(nil, repository.ErrUserNotFound)

	_, err := service.Login(ctx, &usecase.LoginInput{NationalID: validNationalID, Password: "whatever"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	txManager := new(mockRepo.MockTransactionManager)
	userRepo := new(mockRepo.MockUserRepository)
	tokenRepo := new(mockRepo.MockRefreshTokenRepository)
	hasher := new(mockService.MockPasswordHasher)
	tokenService := new(mockService.MockTokenService)
	service := newAuthServiceForTest(txManager, userRepo, tokenRepo, hasher, tokenService, nil)

	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), NationalID: validNationalID, PasswordHash: "hashed", IsActive: false}

	userRepo.On("FindByNationalID", ctx, validNationalID).Return(user, nil)
	hasher.On("Check", "secret-pass", "hashed").Return(true)

	_, err := service.Login(ctx, &usecase.LoginInput{NationalID: validNationalID, Password: "secret-pass"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserInactive))
}

func TestAuthService_Register_InvalidNationalID(t *testing.T) {
	txManager := new(mockRepo.MockTransactionManager)
	userRepo := new(mockRepo.MockUserRepository)
	tokenRepo := new(mockRepo.MockRefreshTokenRepository)
	hasher := new(mockService.MockPasswordHasher)
	tokenService := new(mockService.MockTokenService)
	service := newAuthServiceForTest(txManager, userRepo, tokenRepo, hasher, tokenService, nil)

	_, err := service.Register(context.Background(), &usecase.RegisterInput{NationalID: "1234567890", FirstName: "علی", LastName: "رضایی", Password: "long-enough-pass"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidNationalID))
	hasher.AssertNotCalled(t, "Hash", mock.Anything)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	txManager := new(mockRepo.MockTransactionManager)
	userRepo := new(mockRepo.MockUserRepository)
	tokenRepo := new(mockRepo.MockRefreshTokenRepository)
	hasher := new(mockService.MockPasswordHasher)
	tokenService := new(mockService.MockTokenService)
	service := newAuthServiceForTest(txManager, userRepo, tokenRepo, hasher, tokenService, nil)

	_, err := service.Register(context.Background(), &usecase.RegisterInput{NationalID: validNationalID, FirstName: "علی", LastName: "رضایی", Password: "short"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	txManager := new(mockRepo.MockTransactionManager)
	userRepo := new(mockRepo.MockUserRepository)
	tokenRepo := new(mockRepo.MockRefreshTokenRepository)
	hasher := new(mockService.MockPasswordHasher)
	tokenService := new(mockService.MockTokenService)
	service := newAuthServiceForTest(txManager, userRepo, tokenRepo, hasher, tokenService, nil)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID, IsActive: true}
	rawToken := "old-refresh-token"
	oldHash := hashToken(rawToken)
	stored := &entity.RefreshToken{ID: uuid.New(), UserID: userID, TokenHash: oldHash, ExpiresAt: time.Now().Add(time.Hour)}

	tokenService.On("ValidateToken", rawToken).Return(&domainservice.Claims{UserID: userID, Type: "refresh"}, nil)
	tokenRepo.On("FindByTokenHash", ctx, oldHash).Return(stored, nil)
	userRepo.On("FindByID", ctx, userID).Return(user, nil)
	tokenService.On("GenerateTokens", userID, []string{"user"}).Return("new-access", "new-refresh", nil)
	tokenService.On("GetRefreshTokenDuration").Return(24 * time.Hour)

	txTokenRepo := new(mockRepo.MockRefreshTokenRepository)
	txTokenRepo.On("DeleteByTokenHash", ctx, oldHash).Return(nil)
	txTokenRepo.On("Create", ctx, mock.MatchedBy(func(rt *entity.RefreshToken) bool {
		return rt.UserID == userID && rt.TokenHash == hashToken("new-refresh")
	})).Return(nil)

	factory := new(mockRepo.MockRepositoryFactory)
	factory.On("NewRefreshTokenRepository").Return(txTokenRepo)

	txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			_ = fn(factory)
		}).
		Return(nil)

	out, err := service.Refresh(ctx, &usecase.RefreshTokenInput{RefreshToken: rawToken})

	require.NoError(t, err)
	assert.Equal(t, "new-access", out.AccessToken)
	assert.Equal(t, "new-refresh", out.RefreshToken)
	txTokenRepo.AssertExpectations(t)
}

func TestAuthService_Refresh_ExpiredSession(t *testing.T) {
	txManager := new(mockRepo.MockTransactionManager)
	userRepo := new(mockRepo.MockUserRepository)
	tokenRepo := new(mockRepo.MockRefreshTokenRepository)
	hasher := new(mockService.MockPasswordHasher)
	tokenService := new(mockService.MockTokenService)
	service := newAuthServiceForTest(txManager, userRepo, tokenRepo, hasher, tokenService, nil)

	ctx := context.Background()
	userID := uuid.New()
	rawToken := "stale-refresh-token"
	stored := &entity.RefreshToken{UserID: userID, TokenHash: hashToken(rawToken), ExpiresAt: time.Now().Add(-time.Minute)}

	tokenService.On("ValidateToken", rawToken).Return(&domainservice.Claims{UserID: userID, Type: "refresh"}, nil)
	tokenRepo.On("FindByTokenHash", ctx, hashToken(rawToken)).Return(stored, nil)

	_, err := service.Refresh(ctx, &usecase.RefreshTokenInput{RefreshToken: rawToken})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestAuthService_OpenSession_EvictsBeyondLimit(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{MaxActiveSessions: 2}}
	txManager := new(mockRepo.MockTransactionManager)
	userRepo := new(mockRepo.MockUserRepository)
	tokenRepo := new(mockRepo.MockRefreshTokenRepository)
	hasher := new(mockService.MockPasswordHasher)
	tokenService := new(mockService.MockTokenService)
	service := newAuthServiceForTest(txManager, userRepo, tokenRepo, hasher, tokenService, cfg)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{ID: userID, IsActive: true}

	tokenService.On("GenerateTokens", userID, []string{"user"}).Return("access", "refresh", nil)
	tokenService.On("GetRefreshTokenDuration").Return(24 * time.Hour)
	tokenRepo.On("Create", ctx, mock.AnythingOfType("*entity.RefreshToken")).Return(nil)
	tokenRepo.On("CountByUserID", ctx, userID).Return(int64(3), nil)
	tokenRepo.On("DeleteOldest", ctx, userID, 2).Return(nil)

	_, _, err := service.openSession(ctx, user)

	require.NoError(t, err)
	tokenRepo.AssertCalled(t, "DeleteOldest", ctx, userID, 2)
}

func TestAuthService_Logout_UnknownSession(t *testing.T) {
	txManager := new(mockRepo.MockTransactionManager)
	userRepo := new(mockRepo.MockUserRepository)
	tokenRepo := new(mockRepo.MockRefreshTokenRepository)
	hasher := new(mockService.MockPasswordHasher)
	tokenService := new(mockService.MockTokenService)
	service := newAuthServiceForTest(txManager, userRepo, tokenRepo, hasher, tokenService, nil)

	ctx := context.Background()
	tokenRepo.On("DeleteByTokenHash", ctx, mock.AnythingOfType("string")).Return(repository.ErrRefreshTokenNotFound)

	err := service.Logout(ctx, &usecase.LogoutInput{RefreshToken: "gone"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}
