package impl

import (
	"context"
	"log/slog"

	domainerrors "pfm/internal/domain/errors"
	"pfm/internal/domain/service"
	"pfm/internal/usecase"
)

type sessionService struct {
	identity service.IdentityProvider
	tokens   service.TokenService
	stores   usecase.StoreManager
	control  usecase.ControlManager
	logger   *slog.Logger
}

// NewSessionService creates the session use case over the identity
// provider and the token service.
func NewSessionService(identity service.IdentityProvider, tokens service.TokenService, stores usecase.StoreManager, control usecase.ControlManager, logger *slog.Logger) usecase.SessionUsecase {
	return &sessionService{
		identity: identity,
		tokens:   tokens,
		stores:   stores,
		control:  control,
		logger:   logger,
	}
}

// ExchangeIDToken verifies an identity-provider ID token and issues the
// first-party access/refresh pair for the proven user.
func (s *sessionService) ExchangeIDToken(ctx context.Context, idToken string) (*usecase.SessionTokens, error) {
	identity, err := s.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.logger.Warn("identity token rejected", slog.Any("error", err))

		return nil, domainerrors.ErrIdentityTokenInvalid
	}

	access, refresh, err := s.tokens.GenerateTokens(identity.UID, identity.Email)
	if err != nil {
		return nil, domainerrors.ErrInternalError.WrapMessage(err.Error())
	}

	return &usecase.SessionTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       identity.UID,
		Email:        identity.Email,
	}, nil
}

// Refresh rotates the token pair from a valid refresh token. Refresh is
// stateless: the claims inside the token are the only session record.
func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*usecase.SessionTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	access, refresh, err := s.tokens.GenerateTokens(claims.UserID, claims.Email)
	if err != nil {
		return nil, domainerrors.ErrInternalError.WrapMessage(err.Error())
	}

	return &usecase.SessionTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       claims.UserID,
		Email:        claims.Email,
	}, nil
}

// PasswordReset asks the identity provider for a reset link.
func (s *sessionService) PasswordReset(ctx context.Context, email string) (string, error) {
	link, err := s.identity.PasswordResetLink(ctx, email)
	if err != nil {
		return "", domainerrors.ErrInternalError.WrapMessage(err.Error())
	}

	return link, nil
}

// Logout tears down the user's server-side session state: every control
// session is closed (stopping its ticker) and the device cache dropped.
func (s *sessionService) Logout(ctx context.Context, userID string) error {
	s.control.CloseSessions(userID)
	s.stores.Teardown(userID)

	s.logger.Info("session torn down", slog.String("user_id", userID))

	return nil
}
