package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeOfDay_Format12_EdgeHours(t *testing.T) {
	cases := map[TimeOfDay]string{
		{Hour: 0, Minute: 0}:   "12:00 AM",
		{Hour: 0, Minute: 30}:  "12:30 AM",
		{Hour: 1, Minute: 5}:   "1:05 AM",
		{Hour: 11, Minute: 59}: "11:59 AM",
		{Hour: 12, Minute: 0}:  "12:00 PM",
		{Hour: 12, Minute: 30}: "12:30 PM",
		{Hour: 13, Minute: 0}:  "1:00 PM",
		{Hour: 23, Minute: 59}: "11:59 PM",
	}

	for in, want := range cases {
		assert.Equal(t, want, in.Format12())
	}
}

func TestTimeOfDay_Conversion_RoundTrips(t *testing.T) {
	// The 24h -> 12h -> 24h conversion must be the identity for every
	// minute of the day.
	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute++ {
			orig := TimeOfDay{Hour: hour, Minute: minute}

			back, err := ParseTime12(orig.Format12())
			require.NoError(t, err, orig.Format24())
			assert.Equal(t, orig, back, orig.Format24())

			back24, err := ParseTime24(orig.Format24())
			require.NoError(t, err)
			assert.Equal(t, orig, back24)
		}
	}
}

func TestParseTime12_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"8:00",
		"0:30 AM",
		"13:00 PM",
		"8:00 XM",
		"8 AM",
	} {
		_, err := ParseTime12(raw)
		assert.ErrorIs(t, err, ErrInvalidTimeOfDay, "raw=%q", raw)
	}
}

func TestNewTimeOfDay_Bounds(t *testing.T) {
	_, err := NewTimeOfDay(24, 0)
	assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
	_, err = NewTimeOfDay(-1, 0)
	assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
	_, err = NewTimeOfDay(0, 60)
	assert.ErrorIs(t, err, ErrInvalidTimeOfDay)

	tod, err := NewTimeOfDay(23, 59)
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 23, Minute: 59}, tod)
}

func TestParseWeekday(t *testing.T) {
	for _, d := range Weekdays {
		got, err := ParseWeekday(string(d))
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	_, err := ParseWeekday("monday")
	assert.ErrorIs(t, err, ErrInvalidWeekday)
	_, err = ParseWeekday("Mon")
	assert.ErrorIs(t, err, ErrInvalidWeekday)
}

func TestSchedule_Validate(t *testing.T) {
	valid := Schedule{ID: "s1", Day: Monday, Time: TimeOfDay{Hour: 8}, DurationSeconds: 10, Enabled: true}
	require.NoError(t, valid.Validate())

	tooShort := valid
	tooShort.DurationSeconds = 0
	assert.ErrorIs(t, tooShort.Validate(), ErrScheduleDuration)

	tooLong := valid
	tooLong.DurationSeconds = MaxScheduleDuration + 1
	assert.ErrorIs(t, tooLong.Validate(), ErrScheduleDuration)

	badDay := valid
	badDay.Day = "Funday"
	assert.ErrorIs(t, badDay.Validate(), ErrInvalidWeekday)

	badTime := valid
	badTime.Time = TimeOfDay{Hour: 25}
	assert.ErrorIs(t, badTime.Validate(), ErrInvalidTimeOfDay)
}
