// Package entity contains the core business objects of the project.
package entity

import (
	"regexp"
	"time"
)

// DeviceID is the printed identifier of a feeder unit, assigned at the
// factory and never changed afterwards. Format: PFM-XXXX-XXXX-XXXX with
// uppercase alphanumeric groups.
type DeviceID string

var deviceIDPattern = regexp.MustCompile(`^PFM-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// ParseDeviceID validates a raw identifier against the hardware label format.
func ParseDeviceID(raw string) (DeviceID, error) {
	if !deviceIDPattern.MatchString(raw) {
		return "", ErrInvalidDeviceID
	}

	return DeviceID(raw), nil
}

// String returns the identifier in its printed form.
func (id DeviceID) String() string {
	return string(id)
}

// DefaultName derives a display name from the first identifier group,
// used when a device is registered without a custom name.
func (id DeviceID) DefaultName() string {
	return "Pet Feeder " + string(id)[4:8]
}

// DeviceStatus indicates whether a feeder has reported itself online.
type DeviceStatus string

const (
	DeviceStatusActive   DeviceStatus = "active"
	DeviceStatusInactive DeviceStatus = "inactive"
)

// MaxTimerMinutes is the longest one-shot feeding timer a device accepts.
const MaxTimerMinutes = 120

// TimerSettings is the persisted one-shot timer state of a device.
// Active stays true after the countdown runs out locally; only an
// explicit stop clears it.
type TimerSettings struct {
	Minutes   int        `json:"minutes"`
	Active    bool       `json:"active"`
	StartTime *time.Time `json:"start_time,omitempty"`
}

// Device represents a single feeder unit as stored in the remote
// document store. The client side holds a cached copy; the identifier
// is immutable once assigned.
type Device struct {
	ID           DeviceID      `json:"id"`
	Name         string        `json:"name"`
	Status       DeviceStatus  `json:"status"`
	TouchControl bool          `json:"touch_control"`
	Timer        TimerSettings `json:"timer_settings"`
	Schedules    []Schedule    `json:"schedules"`
	LastFed      *time.Time    `json:"last_fed,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// NewDevice builds a device with factory-default settings: inactive,
// touch lock off, zeroed timer, no schedules, never fed.
func NewDevice(id DeviceID, name string, now time.Time) *Device {
	if name == "" {
		name = id.DefaultName()
	}

	return &Device{
		ID:           id,
		Name:         name,
		Status:       DeviceStatusInactive,
		TouchControl: false,
		Timer:        TimerSettings{},
		Schedules:    nil,
		LastFed:      nil,
		CreatedAt:    now,
	}
}

// Clone returns a deep copy so cached devices can be handed out without
// exposing the cache's own slices to mutation.
func (d *Device) Clone() *Device {
	clone := *d
	if d.Schedules != nil {
		clone.Schedules = make([]Schedule, len(d.Schedules))
		copy(clone.Schedules, d.Schedules)
	}
	if d.LastFed != nil {
		t := *d.LastFed
		clone.LastFed = &t
	}
	if d.Timer.StartTime != nil {
		t := *d.Timer.StartTime
		clone.Timer.StartTime = &t
	}

	return &clone
}

// ScheduleByID finds a schedule entry by its stable identifier.
func (d *Device) ScheduleByID(id string) (Schedule, bool) {
	for _, s := range d.Schedules {
		if s.ID == id {
			return s, true
		}
	}

	return Schedule{}, false
}
