package usecase

import (
	"context"

	"pfm/internal/domain/entity"
)

// TimerState describes where a control session's countdown is.
type TimerState string

const (
	// TimerIdle means no countdown is active.
	TimerIdle TimerState = "idle"
	// TimerRunning means the countdown is ticking toward zero.
	TimerRunning TimerState = "running"
	// TimerExpired means the countdown reached zero and is waiting to be
	// acknowledged with a stop.
	TimerExpired TimerState = "expired"
)

// TimerStatus is a point-in-time snapshot of a session's countdown.
type TimerStatus struct {
	State            TimerState `json:"state"`
	Minutes          int        `json:"minutes"`
	RemainingSeconds int        `json:"remaining_seconds"`
}

// ControlSession is the interactive state for one user operating one
// device: the feeding timer, the touch-lock, and the schedule list.
// Timer and touch-lock changes apply locally first and roll back if the
// remote write fails; schedule changes only apply after the remote
// write succeeds.
type ControlSession interface {
	// DeviceID identifies the device this session controls.
	DeviceID() entity.DeviceID

	// StartTimer begins a countdown of minutes*60 seconds. Zero or
	// negative minutes are ignored; minutes above the maximum are
	// rejected. The countdown starts immediately, before the remote
	// write completes.
	StartTimer(ctx context.Context, minutes int) error

	// StopTimer cancels the countdown and persists the timer as
	// inactive, restoring the prior state if the write fails.
	StopTimer(ctx context.Context) error

	// TimerStatus reports the current countdown state.
	TimerStatus() TimerStatus

	// SetTouchControl flips the touch-lock. Disabling it records a
	// feeding: lastFed is stamped and a feeding event is published.
	SetTouchControl(ctx context.Context, enabled bool) error

	// AddSchedule validates and appends a new schedule, returning it
	// with its generated ID.
	AddSchedule(ctx context.Context, day entity.Weekday, at entity.TimeOfDay, durationSeconds int) (*entity.Schedule, error)

	// RemoveSchedule deletes a schedule by ID.
	RemoveSchedule(ctx context.Context, scheduleID string) error

	// ToggleSchedule flips a schedule's enabled flag by ID.
	ToggleSchedule(ctx context.Context, scheduleID string) error

	// Close stops any running ticker. The session must not be used
	// afterwards.
	Close()
}

// ControlManager hands out one ControlSession per (user, device) pair
// and closes them all on sign-out.
type ControlManager interface {
	// SessionFor returns the user's session for a device, creating it on
	// first use. The device must already be present in the user's store.
	SessionFor(ctx context.Context, userID string, deviceID entity.DeviceID) (ControlSession, error)

	// CloseSessions closes every session held for the user.
	CloseSessions(userID string)
}
