package usecase

import "context"

// SessionTokens is the pair of first-party JWTs handed to a client
// after its identity-provider token has been verified.
type SessionTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
}

// SessionUsecase exchanges identity-provider credentials for service
// sessions and manages their lifecycle.
type SessionUsecase interface {
	// ExchangeIDToken verifies an identity-provider ID token and issues
	// access/refresh tokens for the proven user.
	ExchangeIDToken(ctx context.Context, idToken string) (*SessionTokens, error)

	// Refresh rotates the token pair from a valid refresh token.
	Refresh(ctx context.Context, refreshToken string) (*SessionTokens, error)

	// PasswordReset asks the identity provider for a password reset link
	// for the given email.
	PasswordReset(ctx context.Context, email string) (string, error)

	// Logout tears down the user's server-side session state, including
	// any running countdown tickers.
	Logout(ctx context.Context, userID string) error
}
