package usecase

import "context"

// NotificationUsecase manages push notification registration for
// feeding alerts.
type NotificationUsecase interface {
	// RegisterToken stores a device push token for the user with
	// add-to-set semantics.
	RegisterToken(ctx context.Context, userID string, token string) error
}
