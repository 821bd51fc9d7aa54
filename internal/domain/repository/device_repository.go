// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"pfm/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for device persistence.
var (
	// ErrDeviceNotFound is returned when no document exists for a device ID.
	ErrDeviceNotFound = errors.New("device not found")
)

// SettingsPatch is a partial-field update of a device document. Nil
// fields are left untouched; set fields fully replace the corresponding
// document field (shallow merge, one level deep).
type SettingsPatch struct {
	Name         *string
	Status       *entity.DeviceStatus
	TouchControl *bool
	Timer        *entity.TimerSettings
	Schedules    *[]entity.Schedule
	LastFed      *time.Time
}

// IsEmpty reports whether the patch carries no fields.
func (p SettingsPatch) IsEmpty() bool {
	return p.Name == nil && p.Status == nil && p.TouchControl == nil &&
		p.Timer == nil && p.Schedules == nil && p.LastFed == nil
}

// DeviceRepository is the gateway to the remote devices collection.
type DeviceRepository interface {
	// Get retrieves a device document by its identifier.
	// Returns ErrDeviceNotFound when no document exists.
	Get(ctx context.Context, id entity.DeviceID) (*entity.Device, error)

	// Create persists a new device document keyed by its identifier.
	Create(ctx context.Context, device *entity.Device) error

	// UpdateName overwrites only the display name of an existing device.
	UpdateName(ctx context.Context, id entity.DeviceID, name string) error

	// Update applies a partial settings patch to the device document.
	Update(ctx context.Context, id entity.DeviceID, patch SettingsPatch) error
}
