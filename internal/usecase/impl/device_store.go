// Package impl provides the concrete implementations of the usecase interfaces.
package impl

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"pfm/internal/domain/entity"
	domainerrors "pfm/internal/domain/errors"
	"pfm/internal/domain/repository"
	"pfm/internal/errors"
	"pfm/internal/usecase"
)

// deviceStore caches one user's devices and funnels every remote read
// and write for them through a single object. Writes are acknowledged
// by the remote store before they reach the cache, and each device
// carries a monotonic write token so an acknowledgement that arrives
// after a later write never rolls the cache backwards.
type deviceStore struct {
	userID     string
	deviceRepo repository.DeviceRepository
	userRepo   repository.UserRepository
	logger     *slog.Logger
	now        func() time.Time

	mu      sync.Mutex
	devices []*entity.Device
	issued  map[entity.DeviceID]uint64 // write tokens handed out
	applied map[entity.DeviceID]uint64 // highest token merged into the cache
}

func newDeviceStore(userID string, deviceRepo repository.DeviceRepository, userRepo repository.UserRepository, logger *slog.Logger) *deviceStore {
	return &deviceStore{
		userID:     userID,
		deviceRepo: deviceRepo,
		userRepo:   userRepo,
		logger:     logger,
		now:        time.Now,
		issued:     make(map[entity.DeviceID]uint64),
		applied:    make(map[entity.DeviceID]uint64),
	}
}

// NewDeviceStore creates a device store bound to one authenticated user.
func NewDeviceStore(userID string, deviceRepo repository.DeviceRepository, userRepo repository.UserRepository, logger *slog.Logger) usecase.DeviceStore {
	return newDeviceStore(userID, deviceRepo, userRepo, logger)
}

// LoadDevices resolves the user's device references and replaces the
// cache with the result. A reference whose document no longer exists is
// skipped and reported in missing rather than failing the whole load.
func (s *deviceStore) LoadDevices(ctx context.Context) ([]*entity.Device, []entity.DeviceID, error) {
	user, err := s.userRepo.Get(ctx, s.userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// First sign-in: the user document is created lazily on the
			// first device registration.
			s.replaceCache(nil)

			return []*entity.Device{}, nil, nil
		}

		return nil, nil, domainerrors.ErrRemoteStore.WrapMessage(err.Error())
	}

	devices := make([]*entity.Device, 0, len(user.Devices))
	var missing []entity.DeviceID
	for _, id := range user.Devices {
		device, err := s.deviceRepo.Get(ctx, id)
		if errors.Is(err, repository.ErrDeviceNotFound) {
			s.logger.Warn("device reference points at a missing document",
				slog.String("user_id", s.userID),
				slog.String("device_id", id.String()),
			)
			missing = append(missing, id)

			continue
		}
		if err != nil {
			return nil, nil, domainerrors.ErrRemoteStore.WrapMessage(err.Error())
		}

		devices = append(devices, device)
	}

	s.replaceCache(devices)

	return s.Devices(), missing, nil
}

// Devices returns deep copies of the cached device list.
func (s *deviceStore) Devices() []*entity.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*entity.Device, len(s.devices))
	for i, d := range s.devices {
		out[i] = d.Clone()
	}

	return out
}

// Device returns a deep copy of a cached device.
func (s *deviceStore) Device(id entity.DeviceID) (*entity.Device, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	device, _ := s.findLocked(id)
	if device == nil {
		return nil, false
	}

	return device.Clone(), true
}

// RegisterDevice validates the printed identifier, creates or renames
// the device document, links it to the user, and merges the re-read
// document into the cache. The format check runs before any remote
// call, so a mistyped ID never leaves the process.
func (s *deviceStore) RegisterDevice(ctx context.Context, rawID string, name string) (*entity.Device, error) {
	id, err := entity.ParseDeviceID(rawID)
	if err != nil {
		return nil, domainerrors.ErrInvalidDeviceID
	}

	device, err := s.deviceRepo.Get(ctx, id)
	switch {
	case errors.Is(err, repository.ErrDeviceNotFound):
		device = entity.NewDevice(id, name, s.now())
		if err := s.deviceRepo.Create(ctx, device); err != nil {
			return nil, domainerrors.ErrRemoteStore.WrapMessage(err.Error())
		}
	case err != nil:
		return nil, domainerrors.ErrRemoteStore.WrapMessage(err.Error())
	default:
		// The document exists; a non-empty name is the only field a
		// re-registration may change.
		if name != "" && name != device.Name {
			if err := s.deviceRepo.UpdateName(ctx, id, name); err != nil {
				return nil, domainerrors.ErrRemoteStore.WrapMessage(err.Error())
			}
		}
	}

	if err := s.linkToUser(ctx, id); err != nil {
		return nil, domainerrors.ErrRemoteStore.WrapMessage(err.Error())
	}

	fresh, err := s.deviceRepo.Get(ctx, id)
	if err != nil {
		return nil, domainerrors.ErrRemoteStore.WrapMessage(err.Error())
	}

	s.merge(fresh)

	return fresh.Clone(), nil
}

// UpdateDeviceSettings writes a partial patch to the remote store and
// shallow-merges it into the cached device only after the write is
// acknowledged. When acknowledgements complete out of order, the one
// with the older write token is dropped so the cache never moves
// backwards.
func (s *deviceStore) UpdateDeviceSettings(ctx context.Context, id entity.DeviceID, patch repository.SettingsPatch) (*entity.Device, error) {
	s.mu.Lock()
	cached, _ := s.findLocked(id)
	if cached == nil {
		s.mu.Unlock()

		return nil, domainerrors.ErrDeviceNotFound
	}
	if patch.IsEmpty() {
		clone := cached.Clone()
		s.mu.Unlock()

		return clone, nil
	}
	s.issued[id]++
	token := s.issued[id]
	s.mu.Unlock()

	if err := s.deviceRepo.Update(ctx, id, patch); err != nil {
		return nil, domainerrors.ErrRemoteStore.WrapMessage(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cached, _ = s.findLocked(id)
	if cached == nil {
		return nil, domainerrors.ErrDeviceNotFound
	}
	if token <= s.applied[id] {
		s.logger.Debug("dropping stale settings acknowledgement",
			slog.String("device_id", id.String()),
			slog.Uint64("token", token),
			slog.Uint64("applied", s.applied[id]),
		)

		return cached.Clone(), nil
	}
	s.applied[id] = token
	applyPatch(cached, patch)

	return cached.Clone(), nil
}

// linkToUser adds the device to the user's set, creating the user
// document on first registration. AddDevice has add-to-set semantics,
// so re-linking an owned device is a no-op.
func (s *deviceStore) linkToUser(ctx context.Context, id entity.DeviceID) error {
	user, err := s.userRepo.Get(ctx, s.userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return s.userRepo.Create(ctx, &entity.User{
			ID:        s.userID,
			Devices:   []entity.DeviceID{id},
			CreatedAt: s.now(),
		})
	}
	if err != nil {
		return err
	}
	if user.OwnsDevice(id) {
		return nil
	}

	return s.userRepo.AddDevice(ctx, s.userID, id)
}

func (s *deviceStore) replaceCache(devices []*entity.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices = devices
	s.issued = make(map[entity.DeviceID]uint64)
	s.applied = make(map[entity.DeviceID]uint64)
}

func (s *deviceStore) merge(device *entity.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, i := s.findLocked(device.ID); i >= 0 {
		s.devices[i] = device

		return
	}
	s.devices = append(s.devices, device)
}

func (s *deviceStore) findLocked(id entity.DeviceID) (*entity.Device, int) {
	for i, d := range s.devices {
		if d.ID == id {
			return d, i
		}
	}

	return nil, -1
}

// applyPatch shallow-merges a patch into a cached device: each set
// field fully replaces the corresponding device field.
func applyPatch(d *entity.Device, patch repository.SettingsPatch) {
	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.Status != nil {
		d.Status = *patch.Status
	}
	if patch.TouchControl != nil {
		d.TouchControl = *patch.TouchControl
	}
	if patch.Timer != nil {
		d.Timer = *patch.Timer
		if patch.Timer.StartTime != nil {
			t := *patch.Timer.StartTime
			d.Timer.StartTime = &t
		}
	}
	if patch.Schedules != nil {
		d.Schedules = slices.Clone(*patch.Schedules)
	}
	if patch.LastFed != nil {
		t := *patch.LastFed
		d.LastFed = &t
	}
}
