package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeviceID_Valid(t *testing.T) {
	for _, raw := range []string{
		"PFM-AB12-CD34-EF56",
		"PFM-0000-0000-0000",
		"PFM-ZZZZ-9999-A1B2",
	} {
		id, err := ParseDeviceID(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, id.String())
	}
}

func TestParseDeviceID_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"PFM-AB12-CD34",
		"PFM-AB12-CD34-EF56-XX99",
		"pfm-ab12-cd34-ef56",
		"PFM-AB1-CD34-EF56",
		"PFM-AB12-CD34-EF5_",
		" PFM-AB12-CD34-EF56",
		"PFM-AB12-CD34-EF56 ",
		"ABC-AB12-CD34-EF56",
	} {
		_, err := ParseDeviceID(raw)
		assert.ErrorIs(t, err, ErrInvalidDeviceID, "raw=%q", raw)
	}
}

func TestDeviceID_DefaultName(t *testing.T) {
	id := DeviceID("PFM-AB12-CD34-EF56")
	assert.Equal(t, "Pet Feeder AB12", id.DefaultName())
}

func TestNewDevice_FactoryDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	device := NewDevice("PFM-AB12-CD34-EF56", "", now)

	assert.Equal(t, "Pet Feeder AB12", device.Name)
	assert.Equal(t, DeviceStatusInactive, device.Status)
	assert.False(t, device.TouchControl)
	assert.Equal(t, TimerSettings{}, device.Timer)
	assert.Empty(t, device.Schedules)
	assert.Nil(t, device.LastFed)
	assert.Equal(t, now, device.CreatedAt)
}

func TestNewDevice_CustomNameWins(t *testing.T) {
	device := NewDevice("PFM-AB12-CD34-EF56", "Kitchen Feeder", time.Now())
	assert.Equal(t, "Kitchen Feeder", device.Name)
}

func TestDevice_Clone_IsDeep(t *testing.T) {
	fed := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	start := fed.Add(time.Hour)
	device := &Device{
		ID:        "PFM-AB12-CD34-EF56",
		Name:      "original",
		Timer:     TimerSettings{Minutes: 10, Active: true, StartTime: &start},
		Schedules: []Schedule{{ID: "s1", Day: Monday, Time: TimeOfDay{Hour: 8}, DurationSeconds: 5, Enabled: true}},
		LastFed:   &fed,
	}

	clone := device.Clone()
	clone.Name = "mutated"
	clone.Schedules[0].Enabled = false
	*clone.LastFed = fed.Add(24 * time.Hour)
	*clone.Timer.StartTime = start.Add(24 * time.Hour)

	assert.Equal(t, "original", device.Name)
	assert.True(t, device.Schedules[0].Enabled)
	assert.True(t, device.LastFed.Equal(fed))
	assert.True(t, device.Timer.StartTime.Equal(start))
}

func TestDevice_ScheduleByID(t *testing.T) {
	device := &Device{Schedules: []Schedule{{ID: "s1"}, {ID: "s2"}}}

	s, ok := device.ScheduleByID("s2")
	require.True(t, ok)
	assert.Equal(t, "s2", s.ID)

	_, ok = device.ScheduleByID("s3")
	assert.False(t, ok)
}

func TestDeviceIDPattern_Exhaustive(t *testing.T) {
	// Every character position must accept exactly uppercase A-Z and 0-9.
	for _, ch := range "abcdefghijklmnopqrstuvwxyz-_ !" {
		raw := fmt.Sprintf("PFM-%c%c%c%c-CD34-EF56", ch, ch, ch, ch)
		_, err := ParseDeviceID(raw)
		assert.Error(t, err, "char=%q", ch)
	}
	for _, ch := range "ABCXYZ0129" {
		raw := fmt.Sprintf("PFM-%c%c%c%c-CD34-EF56", ch, ch, ch, ch)
		_, err := ParseDeviceID(raw)
		assert.NoError(t, err, "char=%q", ch)
	}
}
