package impl

import (
	"context"
	"testing"

	"pfm/internal/domain/entity"
	domainerrors "pfm/internal/domain/errors"
	"pfm/internal/domain/service"
	"pfm/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStoreManager struct {
	tornDown []string
}

func (f *fakeStoreManager) StoreFor(string) usecase.DeviceStore { return nil }

func (f *fakeStoreManager) Teardown(userID string) {
	f.tornDown = append(f.tornDown, userID)
}

type fakeControlManager struct {
	closed []string
}

func (f *fakeControlManager) SessionFor(context.Context, string, entity.DeviceID) (usecase.ControlSession, error) {
	return nil, nil
}

func (f *fakeControlManager) CloseSessions(userID string) {
	f.closed = append(f.closed, userID)
}

type sessionServiceFixtures struct {
	service  usecase.SessionUsecase
	identity *mockIdentityProvider
	tokens   *mockTokenService
	stores   *fakeStoreManager
	control  *fakeControlManager
}

func createTestSessionService(t *testing.T) sessionServiceFixtures {
	t.Helper()

	identity := new(mockIdentityProvider)
	tokens := new(mockTokenService)
	stores := &fakeStoreManager{}
	control := &fakeControlManager{}
	svc := NewSessionService(identity, tokens, stores, control, testLogger())

	t.Cleanup(func() {
		identity.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})

	return sessionServiceFixtures{service: svc, identity: identity, tokens: tokens, stores: stores, control: control}
}

func TestSessionService_ExchangeIDToken_Success(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()

	fx.identity.On("VerifyIDToken", ctx, "firebase-id-token").
		Return(&service.Identity{UID: testUserID, Email: "owner@example.com"}, nil)
	fx.tokens.On("GenerateTokens", testUserID, "owner@example.com").
		Return("access-jwt", "refresh-jwt", nil)

	session, err := fx.service.ExchangeIDToken(ctx, "firebase-id-token")
	require.NoError(t, err)
	assert.Equal(t, "access-jwt", session.AccessToken)
	assert.Equal(t, "refresh-jwt", session.RefreshToken)
	assert.Equal(t, testUserID, session.UserID)
	assert.Equal(t, "owner@example.com", session.Email)
}

func TestSessionService_ExchangeIDToken_RejectedToken(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()

	fx.identity.On("VerifyIDToken", ctx, "garbage").
		Return(nil, errors.New("token expired"))

	_, err := fx.service.ExchangeIDToken(ctx, "garbage")
	assert.ErrorIs(t, err, domainerrors.ErrIdentityTokenInvalid)
}

func TestSessionService_Refresh_Success(t *testing.T) {
	fx := createTestSessionService(t)

	fx.tokens.On("ValidateRefreshToken", "refresh-jwt").
		Return(&service.TokenClaims{UserID: testUserID, Email: "owner@example.com"}, nil)
	fx.tokens.On("GenerateTokens", testUserID, "owner@example.com").
		Return("access-jwt-2", "refresh-jwt-2", nil)

	session, err := fx.service.Refresh(context.Background(), "refresh-jwt")
	require.NoError(t, err)
	assert.Equal(t, "access-jwt-2", session.AccessToken)
	assert.Equal(t, "refresh-jwt-2", session.RefreshToken)
}

func TestSessionService_Refresh_InvalidToken(t *testing.T) {
	fx := createTestSessionService(t)

	fx.tokens.On("ValidateRefreshToken", "stale").
		Return(nil, errors.New("signature mismatch"))

	_, err := fx.service.Refresh(context.Background(), "stale")
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestSessionService_PasswordReset(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()

	fx.identity.On("PasswordResetLink", ctx, "owner@example.com").
		Return("https://reset.example.com/abc", nil)

	link, err := fx.service.PasswordReset(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://reset.example.com/abc", link)
}

func TestSessionService_Logout_TearsDownSessionState(t *testing.T) {
	fx := createTestSessionService(t)

	require.NoError(t, fx.service.Logout(context.Background(), testUserID))

	assert.Equal(t, []string{testUserID}, fx.control.closed)
	assert.Equal(t, []string{testUserID}, fx.stores.tornDown)
}
