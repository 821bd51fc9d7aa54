// Package model contains the document representations persisted in the
// remote store, kept separate from the domain entities so wire-format
// concerns (field names, time encoding) stay out of the domain.
package model

import (
	"time"

	"pfm/internal/domain/entity"

	"github.com/pkg/errors"
)

// DeviceDoc mirrors a document in the devices collection. The document
// key is the device identifier, so the ID is not stored as a field.
type DeviceDoc struct {
	Name         string        `firestore:"name"`
	Status       string        `firestore:"status"`
	TouchControl bool          `firestore:"touchControl"`
	Timer        TimerDoc      `firestore:"timerSettings"`
	Schedules    []ScheduleDoc `firestore:"schedules"`
	LastFed      *time.Time    `firestore:"lastFed"`
	CreatedAt    time.Time     `firestore:"createdAt"`
}

// TimerDoc mirrors the nested timerSettings map.
type TimerDoc struct {
	Minutes   int        `firestore:"minutes"`
	Active    bool       `firestore:"active"`
	StartTime *time.Time `firestore:"startTime"`
}

// ScheduleDoc mirrors one entry of the schedules array. Time is stored
// in 24-hour form; the 12-hour rendering is derived on the way out.
type ScheduleDoc struct {
	ID       string `firestore:"id"`
	Day      string `firestore:"day"`
	Time24h  string `firestore:"time24h"`
	Duration int    `firestore:"duration"`
	Enabled  bool   `firestore:"enabled"`
}

// FromDevice converts a domain device into its document form.
func FromDevice(device *entity.Device) *DeviceDoc {
	doc := &DeviceDoc{
		Name:         device.Name,
		Status:       string(device.Status),
		TouchControl: device.TouchControl,
		Timer:        FromTimer(device.Timer),
		Schedules:    FromSchedules(device.Schedules),
		LastFed:      device.LastFed,
		CreatedAt:    device.CreatedAt,
	}

	return doc
}

// ToDevice converts a stored document back into the domain entity.
func (d *DeviceDoc) ToDevice(id entity.DeviceID) (*entity.Device, error) {
	schedules, err := ToSchedules(d.Schedules)
	if err != nil {
		return nil, err
	}

	return &entity.Device{
		ID:           id,
		Name:         d.Name,
		Status:       entity.DeviceStatus(d.Status),
		TouchControl: d.TouchControl,
		Timer: entity.TimerSettings{
			Minutes:   d.Timer.Minutes,
			Active:    d.Timer.Active,
			StartTime: d.Timer.StartTime,
		},
		Schedules: schedules,
		LastFed:   d.LastFed,
		CreatedAt: d.CreatedAt,
	}, nil
}

// FromTimer converts the domain timer settings.
func FromTimer(timer entity.TimerSettings) TimerDoc {
	return TimerDoc{
		Minutes:   timer.Minutes,
		Active:    timer.Active,
		StartTime: timer.StartTime,
	}
}

// FromSchedules converts domain schedules into document form.
func FromSchedules(schedules []entity.Schedule) []ScheduleDoc {
	if schedules == nil {
		return nil
	}

	docs := make([]ScheduleDoc, len(schedules))
	for i, s := range schedules {
		docs[i] = ScheduleDoc{
			ID:       s.ID,
			Day:      string(s.Day),
			Time24h:  s.Time.Format24(),
			Duration: s.DurationSeconds,
			Enabled:  s.Enabled,
		}
	}

	return docs
}

// ToSchedules converts stored schedule entries back into the domain form.
func ToSchedules(docs []ScheduleDoc) ([]entity.Schedule, error) {
	if docs == nil {
		return nil, nil
	}

	schedules := make([]entity.Schedule, len(docs))
	for i, d := range docs {
		day, err := entity.ParseWeekday(d.Day)
		if err != nil {
			return nil, errors.Wrapf(err, "schedule %s has invalid day %q", d.ID, d.Day)
		}
		at, err := entity.ParseTime24(d.Time24h)
		if err != nil {
			return nil, errors.Wrapf(err, "schedule %s has invalid time %q", d.ID, d.Time24h)
		}

		schedules[i] = entity.Schedule{
			ID:              d.ID,
			Day:             day,
			Time:            at,
			DurationSeconds: d.Duration,
			Enabled:         d.Enabled,
		}
	}

	return schedules, nil
}
