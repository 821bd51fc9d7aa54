package repository

import (
	"context"

	"pfm/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrUserNotFound is returned when no document exists for a user ID.
var ErrUserNotFound = errors.New("user not found")

// UserRepository is the gateway to the remote users collection. User
// documents are keyed by the identity provider UID.
type UserRepository interface {
	// Get retrieves a user document. Returns ErrUserNotFound when the
	// user has never registered a device (the document is created lazily).
	Get(ctx context.Context, userID string) (*entity.User, error)

	// Create persists a new user document.
	Create(ctx context.Context, user *entity.User) error

	// AddDevice appends a device identifier to the user's set with
	// add-to-set semantics: linking an already-linked device is a no-op.
	AddDevice(ctx context.Context, userID string, deviceID entity.DeviceID) error

	// AddNotificationToken registers a push token for feeding
	// notifications, with add-to-set semantics.
	AddNotificationToken(ctx context.Context, userID string, token string) error
}
