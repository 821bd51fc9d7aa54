package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"pfm/internal/domain/entity"
	"pfm/internal/domain/repository"
	"pfm/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockDeviceRepository struct {
	mock.Mock
}

func (m *mockDeviceRepository) Get(ctx context.Context, id entity.DeviceID) (*entity.Device, error) {
	args := m.Called(ctx, id)
	var device *entity.Device
	if v := args.Get(0); v != nil {
		device = v.(*entity.Device)
	}

	return device, args.Error(1)
}

func (m *mockDeviceRepository) Create(ctx context.Context, device *entity.Device) error {
	return m.Called(ctx, device).Error(0)
}

func (m *mockDeviceRepository) UpdateName(ctx context.Context, id entity.DeviceID, name string) error {
	return m.Called(ctx, id, name).Error(0)
}

func (m *mockDeviceRepository) Update(ctx context.Context, id entity.DeviceID, patch repository.SettingsPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Get(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	var user *entity.User
	if v := args.Get(0); v != nil {
		user = v.(*entity.User)
	}

	return user, args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) AddDevice(ctx context.Context, userID string, deviceID entity.DeviceID) error {
	return m.Called(ctx, userID, deviceID).Error(0)
}

func (m *mockUserRepository) AddNotificationToken(ctx context.Context, userID string, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) PublishFeedingEvent(ctx context.Context, event *service.FeedingEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventPublisher) Close() error {
	return m.Called().Error(0)
}

type mockIdentityProvider struct {
	mock.Mock
}

func (m *mockIdentityProvider) VerifyIDToken(ctx context.Context, idToken string) (*service.Identity, error) {
	args := m.Called(ctx, idToken)
	var identity *service.Identity
	if v := args.Get(0); v != nil {
		identity = v.(*service.Identity)
	}

	return identity, args.Error(1)
}

func (m *mockIdentityProvider) PasswordResetLink(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)

	return args.String(0), args.Error(1)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateTokens(userID, email string) (string, string, error) {
	args := m.Called(userID, email)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) ValidateAccessToken(tokenString string) (*service.TokenClaims, error) {
	args := m.Called(tokenString)
	var claims *service.TokenClaims
	if v := args.Get(0); v != nil {
		claims = v.(*service.TokenClaims)
	}

	return claims, args.Error(1)
}

func (m *mockTokenService) ValidateRefreshToken(tokenString string) (*service.TokenClaims, error) {
	args := m.Called(tokenString)
	var claims *service.TokenClaims
	if v := args.Get(0); v != nil {
		claims = v.(*service.TokenClaims)
	}

	return claims, args.Error(1)
}

func (m *mockTokenService) ValidateToken(tokenString string, secret string) (*jwt.Token, error) {
	args := m.Called(tokenString, secret)
	var token *jwt.Token
	if v := args.Get(0); v != nil {
		token = v.(*jwt.Token)
	}

	return token, args.Error(1)
}

func (m *mockTokenService) GetRefreshTokenDuration() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}
