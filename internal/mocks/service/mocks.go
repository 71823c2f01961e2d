// Package service provides hand-written testify doubles for the domain
// service interfaces, used by the usecase tests.
package service

import (
	"context"
	"io"
	"time"

	"bimeh/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTokenService implements service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateTokens(userID uuid.UUID, roles []string) (string, string, error) {
	args := m.Called(userID, roles)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockTokenService) GetRefreshTokenDuration() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

// MockPasswordHasher implements service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

// MockEventPublisher implements service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishStatusTransition(ctx context.Context, event *service.StatusTransitionEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// MockNotificationService implements service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	return m.Called(ctx, token, title, body, data).Error(0)
}

func (m *MockNotificationService) SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, int, []string, error) {
	args := m.Called(ctx, tokens, title, body, data)
	var invalid []string
	if args.Get(2) != nil {
		invalid = args.Get(2).([]string)
	}

	return args.Int(0), args.Int(1), invalid, args.Error(3)
}

// MockQRCodeService implements service.QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

func (m *MockQRCodeService) GenerateCardQR(registrationID uuid.UUID) ([]byte, error) {
	args := m.Called(registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockQRCodeService) ParseCardQR(qrData string) (uuid.UUID, error) {
	args := m.Called(qrData)

	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockFileStore implements service.FileStore.
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, key string, contentType string, content io.Reader) error {
	return m.Called(ctx, key, contentType, content).Error(0)
}

func (m *MockFileStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
