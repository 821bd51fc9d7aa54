// Package identity wraps the Firebase Auth admin client behind the
// domain IdentityProvider interface.
package identity

import (
	"context"

	"pfm/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
)

type firebaseIdentity struct {
	client *auth.Client
}

// NewFirebaseIdentity creates an IdentityProvider backed by Firebase Auth.
func NewFirebaseIdentity(ctx context.Context, app *firebase.App) (service.IdentityProvider, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get auth client")
	}

	return &firebaseIdentity{client: client}, nil
}

// VerifyIDToken validates a client-obtained ID token. Both password and
// Google federated sign-ins produce the same token format.
func (s *firebaseIdentity) VerifyIDToken(ctx context.Context, idToken string) (*service.Identity, error) {
	token, err := s.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify ID token")
	}

	identity := &service.Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}

	return identity, nil
}

// PasswordResetLink dispatches password-reset email generation to the provider.
func (s *firebaseIdentity) PasswordResetLink(ctx context.Context, email string) (string, error) {
	link, err := s.client.PasswordResetLink(ctx, email)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate password reset link")
	}

	return link, nil
}
