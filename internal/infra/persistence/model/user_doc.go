package model

import (
	"time"

	"pfm/internal/domain/entity"
)

// UserDoc mirrors a document in the users collection, keyed by the
// identity provider UID.
type UserDoc struct {
	Email              string    `firestore:"email"`
	Devices            []string  `firestore:"devices"`
	NotificationTokens []string  `firestore:"notificationTokens"`
	CreatedAt          time.Time `firestore:"createdAt"`
}

// FromUser converts a domain user into its document form.
func FromUser(user *entity.User) *UserDoc {
	devices := make([]string, len(user.Devices))
	for i, d := range user.Devices {
		devices[i] = d.String()
	}

	return &UserDoc{
		Email:              user.Email,
		Devices:            devices,
		NotificationTokens: user.NotificationTokens,
		CreatedAt:          user.CreatedAt,
	}
}

// ToUser converts a stored document back into the domain entity.
// Device identifiers are trusted as written; the registration path
// validated them before they entered the store.
func (d *UserDoc) ToUser(id string) *entity.User {
	devices := make([]entity.DeviceID, len(d.Devices))
	for i, raw := range d.Devices {
		devices[i] = entity.DeviceID(raw)
	}

	return &entity.User{
		ID:                 id,
		Email:              d.Email,
		Devices:            devices,
		NotificationTokens: d.NotificationTokens,
		CreatedAt:          d.CreatedAt,
	}
}
