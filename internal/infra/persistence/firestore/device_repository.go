package firestore

import (
	"context"

	"pfm/internal/domain/entity"
	"pfm/internal/domain/repository"
	"pfm/internal/infra/persistence/model"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
)

type deviceRepository struct {
	client *firestore.Client
}

// NewDeviceRepository creates the Firestore-backed device repository.
func NewDeviceRepository(client *firestore.Client) repository.DeviceRepository {
	return &deviceRepository{client: client}
}

func (r *deviceRepository) doc(id entity.DeviceID) *firestore.DocumentRef {
	return r.client.Collection(devicesCollection).Doc(id.String())
}

// Get retrieves a device document by its identifier.
func (r *deviceRepository) Get(ctx context.Context, id entity.DeviceID) (*entity.Device, error) {
	snap, err := r.doc(id).Get(ctx)
	if snap != nil && !snap.Exists() {
		return nil, repository.ErrDeviceNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get device %s", id)
	}

	var doc model.DeviceDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Wrapf(err, "failed to decode device %s", id)
	}

	return doc.ToDevice(id)
}

// Create persists a new device document. Fails if a document already
// exists for the identifier, preserving first-registration semantics.
func (r *deviceRepository) Create(ctx context.Context, device *entity.Device) error {
	if _, err := r.doc(device.ID).Create(ctx, model.FromDevice(device)); err != nil {
		return errors.Wrapf(err, "failed to create device %s", device.ID)
	}

	return nil
}

// UpdateName overwrites only the display name of an existing device.
func (r *deviceRepository) UpdateName(ctx context.Context, id entity.DeviceID, name string) error {
	_, err := r.doc(id).Update(ctx, []firestore.Update{
		{Path: "name", Value: name},
	})
	if err != nil {
		return errors.Wrapf(err, "failed to update name of device %s", id)
	}

	return nil
}

// Update applies a partial settings patch. Only the fields present in
// the patch are written; each one fully replaces its document field.
func (r *deviceRepository) Update(ctx context.Context, id entity.DeviceID, patch repository.SettingsPatch) error {
	updates := buildUpdates(patch)
	if len(updates) == 0 {
		return nil
	}

	if _, err := r.doc(id).Update(ctx, updates); err != nil {
		return errors.Wrapf(err, "failed to update device %s", id)
	}

	return nil
}

func buildUpdates(patch repository.SettingsPatch) []firestore.Update {
	var updates []firestore.Update

	if patch.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *patch.Name})
	}
	if patch.Status != nil {
		updates = append(updates, firestore.Update{Path: "status", Value: string(*patch.Status)})
	}
	if patch.TouchControl != nil {
		updates = append(updates, firestore.Update{Path: "touchControl", Value: *patch.TouchControl})
	}
	if patch.Timer != nil {
		updates = append(updates, firestore.Update{Path: "timerSettings", Value: model.FromTimer(*patch.Timer)})
	}
	if patch.Schedules != nil {
		updates = append(updates, firestore.Update{Path: "schedules", Value: model.FromSchedules(*patch.Schedules)})
	}
	if patch.LastFed != nil {
		updates = append(updates, firestore.Update{Path: "lastFed", Value: *patch.LastFed})
	}

	return updates
}
