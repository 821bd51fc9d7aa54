package firestore

import (
	"context"

	"pfm/internal/domain/entity"
	"pfm/internal/domain/repository"
	"pfm/internal/infra/persistence/model"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type userRepository struct {
	client *firestore.Client
}

// NewUserRepository creates the Firestore-backed user repository.
func NewUserRepository(client *firestore.Client) repository.UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) doc(userID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(userID)
}

// Get retrieves a user document by the identity provider UID.
func (r *userRepository) Get(ctx context.Context, userID string) (*entity.User, error) {
	snap, err := r.doc(userID).Get(ctx)
	if snap != nil && !snap.Exists() {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get user %s", userID)
	}

	var doc model.UserDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Wrapf(err, "failed to decode user %s", userID)
	}

	return doc.ToUser(userID), nil
}

// Create persists a new user document.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if _, err := r.doc(user.ID).Create(ctx, model.FromUser(user)); err != nil {
		return errors.Wrapf(err, "failed to create user %s", user.ID)
	}

	return nil
}

// AddDevice appends a device identifier to the user's set. ArrayUnion
// keeps the set duplicate-free without a read-modify-write cycle.
func (r *userRepository) AddDevice(ctx context.Context, userID string, deviceID entity.DeviceID) error {
	_, err := r.doc(userID).Update(ctx, []firestore.Update{
		{Path: "devices", Value: firestore.ArrayUnion(deviceID.String())},
	})
	if status.Code(err) == codes.NotFound {
		return repository.ErrUserNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "failed to link device %s to user %s", deviceID, userID)
	}

	return nil
}

// AddNotificationToken registers a push token with add-to-set semantics.
func (r *userRepository) AddNotificationToken(ctx context.Context, userID string, token string) error {
	_, err := r.doc(userID).Update(ctx, []firestore.Update{
		{Path: "notificationTokens", Value: firestore.ArrayUnion(token)},
	})
	if status.Code(err) == codes.NotFound {
		return repository.ErrUserNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "failed to add notification token for user %s", userID)
	}

	return nil
}
