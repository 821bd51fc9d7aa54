package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pfm/internal/domain/entity"
	domainerrors "pfm/internal/domain/errors"
	"pfm/internal/domain/repository"
	"pfm/internal/domain/service"
	"pfm/internal/usecase"
)

// storeManager hands out one device store per signed-in user. Stores
// are created lazily on first use and dropped on sign-out, so no state
// outlives the session it belongs to.
type storeManager struct {
	deviceRepo repository.DeviceRepository
	userRepo   repository.UserRepository
	logger     *slog.Logger

	mu     sync.Mutex
	stores map[string]usecase.DeviceStore
}

// NewStoreManager creates the per-user device store registry.
func NewStoreManager(deviceRepo repository.DeviceRepository, userRepo repository.UserRepository, logger *slog.Logger) usecase.StoreManager {
	return &storeManager{
		deviceRepo: deviceRepo,
		userRepo:   userRepo,
		logger:     logger,
		stores:     make(map[string]usecase.DeviceStore),
	}
}

// StoreFor returns the user's store, creating it on first use.
func (m *storeManager) StoreFor(userID string) usecase.DeviceStore {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, ok := m.stores[userID]
	if !ok {
		store = NewDeviceStore(userID, m.deviceRepo, m.userRepo, m.logger)
		m.stores[userID] = store
	}

	return store
}

// Teardown drops the user's store and its cache.
func (m *storeManager) Teardown(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.stores, userID)
}

// controlManager hands out one control session per (user, device) pair
// and closes them all when the user signs out, cancelling any running
// countdown tickers.
type controlManager struct {
	stores    usecase.StoreManager
	publisher service.EventPublisher
	logger    *slog.Logger
	tick      time.Duration

	mu       sync.Mutex
	sessions map[string]map[entity.DeviceID]*controlSession
}

// NewControlManager creates the per-user control session registry.
func NewControlManager(stores usecase.StoreManager, publisher service.EventPublisher, logger *slog.Logger) usecase.ControlManager {
	return &controlManager{
		stores:    stores,
		publisher: publisher,
		logger:    logger,
		tick:      time.Second,
		sessions:  make(map[string]map[entity.DeviceID]*controlSession),
	}
}

// SessionFor returns the user's session for a device, creating it on
// first use. The device must be linked to the user; the store is
// refreshed once before giving up on an unknown device.
func (m *controlManager) SessionFor(ctx context.Context, userID string, deviceID entity.DeviceID) (usecase.ControlSession, error) {
	m.mu.Lock()
	if session, ok := m.sessions[userID][deviceID]; ok {
		m.mu.Unlock()

		return session, nil
	}
	m.mu.Unlock()

	store := m.stores.StoreFor(userID)
	device, ok := store.Device(deviceID)
	if !ok {
		if _, _, err := store.LoadDevices(ctx); err != nil {
			return nil, err
		}
		device, ok = store.Device(deviceID)
		if !ok {
			return nil, domainerrors.ErrDeviceNotLinked
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another request may have created the session while the store was
	// being refreshed.
	if session, ok := m.sessions[userID][deviceID]; ok {
		return session, nil
	}

	session := newControlSession(userID, device, store, m.publisher, m.logger, m.tick)
	if m.sessions[userID] == nil {
		m.sessions[userID] = make(map[entity.DeviceID]*controlSession)
	}
	m.sessions[userID][deviceID] = session

	return session, nil
}

// CloseSessions closes every session held for the user.
func (m *controlManager) CloseSessions(userID string) {
	m.mu.Lock()
	sessions := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
