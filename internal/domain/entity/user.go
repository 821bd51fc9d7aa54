package entity

import "time"

// User is an account in the identity provider, mirrored as a document
// in the remote store. Devices holds the identifiers of every feeder
// the user has registered; the set never contains duplicates and only
// ever grows. NotificationTokens are the user's registered push tokens
// for feeding notifications.
type User struct {
	ID                 string     `json:"id"` // identity provider UID
	Email              string     `json:"email"`
	Devices            []DeviceID `json:"devices"`
	NotificationTokens []string   `json:"notification_tokens,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// OwnsDevice reports whether the device is already linked to this user.
func (u *User) OwnsDevice(id DeviceID) bool {
	for _, d := range u.Devices {
		if d == id {
			return true
		}
	}

	return false
}
