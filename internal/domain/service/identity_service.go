package service

import "context"

// Identity is the verified subject returned by the identity provider.
type Identity struct {
	UID   string
	Email string
}

// IdentityProvider fronts the external auth backend. Email/password and
// federated (Google) sign-in both happen on the client against the
// provider; the server only ever sees the resulting ID token.
type IdentityProvider interface {
	// VerifyIDToken validates a client-obtained ID token and returns the
	// subject it was issued for.
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)

	// PasswordResetLink asks the provider to produce a password-reset
	// link for the given email address.
	PasswordResetLink(ctx context.Context, email string) (string, error)
}
