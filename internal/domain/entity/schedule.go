package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Schedule duration bounds in seconds, matching what the dispensing
// motor can safely run in one feeding.
const (
	MinScheduleDuration = 1
	MaxScheduleDuration = 30
)

// Weekday is the day a scheduled feeding fires.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists the seven valid values in display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday validates a day name.
func ParseWeekday(raw string) (Weekday, error) {
	for _, d := range Weekdays {
		if string(d) == raw {
			return d, nil
		}
	}

	return "", ErrInvalidWeekday
}

// TimeOfDay is a wall-clock time without date or zone. It round-trips
// losslessly between 24-hour and 12-hour meridiem forms; hour 0 maps to
// "12:xx AM" and hour 12 to "12:xx PM".
type TimeOfDay struct {
	Hour   int `json:"hour"`   // 0..23
	Minute int `json:"minute"` // 0..59
}

// NewTimeOfDay validates the hour and minute ranges.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// Format24 renders the time as "HH:MM".
func (t TimeOfDay) Format24() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Format12 renders the time as "H:MM AM" / "H:MM PM".
func (t TimeOfDay) Format12() string {
	meridiem := "AM"
	hour := t.Hour
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		meridiem = "PM"
	case hour > 12:
		hour -= 12
		meridiem = "PM"
	}

	return fmt.Sprintf("%d:%02d %s", hour, t.Minute, meridiem)
}

// ParseTime24 parses "HH:MM" (leading zero optional).
func ParseTime24(raw string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(raw, ":")
	if !ok {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}

	hour, err := strconv.Atoi(hh)
	if err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}

	return NewTimeOfDay(hour, minute)
}

// ParseTime12 parses "H:MM AM" / "H:MM PM". The 12-hour hour must be in
// 1..12; "12:xx AM" is midnight and "12:xx PM" is noon.
func ParseTime12(raw string) (TimeOfDay, error) {
	clock, meridiem, ok := strings.Cut(strings.TrimSpace(raw), " ")
	if !ok {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	meridiem = strings.ToUpper(strings.TrimSpace(meridiem))
	if meridiem != "AM" && meridiem != "PM" {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}

	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 1 || hour > 12 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}

	if meridiem == "PM" && hour < 12 {
		hour += 12
	} else if meridiem == "AM" && hour == 12 {
		hour = 0
	}

	return NewTimeOfDay(hour, minute)
}

// Schedule is a single weekly feeding slot on a device. The ID is a
// generated identifier that stays stable across reordering, so toggle
// and remove operations never depend on slice position.
type Schedule struct {
	ID              string    `json:"id"`
	Day             Weekday   `json:"day"`
	Time            TimeOfDay `json:"time"`
	DurationSeconds int       `json:"duration_seconds"`
	Enabled         bool      `json:"enabled"`
}

// Validate checks the schedule fields against the domain invariants.
func (s Schedule) Validate() error {
	if _, err := ParseWeekday(string(s.Day)); err != nil {
		return err
	}
	if _, err := NewTimeOfDay(s.Time.Hour, s.Time.Minute); err != nil {
		return err
	}
	if s.DurationSeconds < MinScheduleDuration || s.DurationSeconds > MaxScheduleDuration {
		return ErrScheduleDuration
	}

	return nil
}
