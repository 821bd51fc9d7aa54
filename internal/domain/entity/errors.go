package entity

import "github.com/pkg/errors"

// Validation errors raised before any remote call is attempted.
var (
	// ErrInvalidDeviceID is returned when an identifier does not match
	// the PFM-XXXX-XXXX-XXXX label format.
	ErrInvalidDeviceID = errors.New("invalid device ID format")

	// ErrScheduleDuration is returned when a feeding duration falls
	// outside the 1-30 second range.
	ErrScheduleDuration = errors.New("schedule duration must be between 1 and 30 seconds")

	// ErrTimerMinutes is returned when timer minutes exceed the 120 minute cap.
	ErrTimerMinutes = errors.New("timer minutes must be between 1 and 120")

	// ErrInvalidWeekday is returned for a day name outside Monday..Sunday.
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrInvalidTimeOfDay is returned for an unparsable or out-of-range wall-clock time.
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
)
