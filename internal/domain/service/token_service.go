// Package service defines the domain-facing interfaces implemented by
// infrastructure adapters.
package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the first-party session identity carried by an access token.
type TokenClaims struct {
	UserID string
	Email  string
}

// TokenService issues and validates the first-party session tokens
// handed out after the identity provider has verified who the user is.
type TokenService interface {
	// GenerateTokens creates an access/refresh token pair for a verified user.
	GenerateTokens(userID, email string) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken checks an access token and returns its claims.
	ValidateAccessToken(tokenString string) (*TokenClaims, error)

	// ValidateRefreshToken checks a refresh token and returns its claims.
	ValidateRefreshToken(tokenString string) (*TokenClaims, error)

	// ValidateToken checks the validity of a token string against a secret.
	ValidateToken(tokenString string, secret string) (*jwt.Token, error)

	// GetRefreshTokenDuration returns the configured refresh token lifetime.
	GetRefreshTokenDuration() time.Duration
}
