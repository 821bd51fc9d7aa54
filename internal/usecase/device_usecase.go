package usecase

import (
	"context"

	"pfm/internal/domain/entity"
	"pfm/internal/domain/repository"
)

// DeviceStore is the per-user gateway for device reads and writes. All
// remote access for a signed-in user's devices flows through one store,
// which keeps an in-memory cache of the documents it has seen.
type DeviceStore interface {
	// LoadDevices fetches the user's device references and resolves each
	// one, replacing the cache with the result. Dangling references are
	// skipped and reported in missing. A user with no document or no
	// devices yields an empty slice and no error.
	LoadDevices(ctx context.Context) (devices []*entity.Device, missing []entity.DeviceID, err error)

	// Devices returns the cached device list without touching the remote
	// store.
	Devices() []*entity.Device

	// Device returns a cached device by ID.
	Device(id entity.DeviceID) (*entity.Device, bool)

	// RegisterDevice validates rawID, creates the device document with
	// defaults if it does not exist (or renames it if name is non-empty),
	// links it to the user, and merges the resulting document into the
	// cache. An invalid ID fails before any remote call.
	RegisterDevice(ctx context.Context, rawID string, name string) (*entity.Device, error)

	// UpdateDeviceSettings writes a partial settings patch to the remote
	// store and merges it into the cached device only after the write is
	// acknowledged. Responses that complete out of order never overwrite
	// newer cached state.
	UpdateDeviceSettings(ctx context.Context, id entity.DeviceID, patch repository.SettingsPatch) (*entity.Device, error)
}

// StoreManager hands out one DeviceStore per authenticated user and
// tears it down on sign-out.
type StoreManager interface {
	// StoreFor returns the user's store, creating it on first use.
	StoreFor(userID string) DeviceStore

	// Teardown drops the user's store and its cache.
	Teardown(userID string)
}
