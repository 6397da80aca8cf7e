package timesheet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		input string
		want  TimeOfDay
	}{
		{"09:00:00", TimeOfDay{9, 0, 0}},
		{"22:30", TimeOfDay{22, 30, 0}},
		{"00:00:01", TimeOfDay{0, 0, 1}},
		{" 23:59:59 ", TimeOfDay{23, 59, 59}},
	}
	for _, c := range cases {
		got, err := ParseTimeOfDay(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, got)
	}

	invalid := []string{"", "24:00:00", "9am", "12:60", "2024-01-01T09:00:00Z"}
	for _, s := range invalid {
		_, err := ParseTimeOfDay(s)
		assert.True(t, errors.Is(err, ErrInvalidTimeOfDay), "input %q", s)
	}
}

func TestTimeOfDay_String(t *testing.T) {
	assert.Equal(t, "07:05:09", TimeOfDay{7, 5, 9}.String())
}

func TestShiftDurationHours_SameDay(t *testing.T) {
	cases := []struct {
		start, end string
		want       float64
	}{
		{"09:00:00", "17:00:00", 8},
		{"08:30:00", "17:00:00", 8.5},
		{"13:00", "13:20", 0.33},
		{"00:00:00", "23:59:59", 24},
		{"06:15:00", "14:45:00", 8.5},
	}
	for _, c := range cases {
		got := ShiftDurationHours(MustTimeOfDay(c.start), MustTimeOfDay(c.end))
		assert.Equal(t, c.want, got, "%s-%s", c.start, c.end)
	}
}

func TestShiftDurationHours_Overnight(t *testing.T) {
	assert.Equal(t, 8.0, ShiftDurationHours(MustTimeOfDay("22:00:00"), MustTimeOfDay("06:00:00")))
	assert.Equal(t, 12.0, ShiftDurationHours(MustTimeOfDay("19:00"), MustTimeOfDay("07:00")))
	assert.Equal(t, 0.5, ShiftDurationHours(MustTimeOfDay("23:45"), MustTimeOfDay("00:15")))
}

func TestShiftDurationHours_OvernightMatchesWraparoundRule(t *testing.T) {
	for startHour := 0; startHour < 24; startHour++ {
		for endHour := 0; endHour <= startHour; endHour++ {
			start := TimeOfDay{Hour: startHour}
			end := TimeOfDay{Hour: endHour}
			want := float64(endHour + 24 - startHour)
			assert.Equal(t, want, ShiftDurationHours(start, end), "%s-%s", start, end)
			assert.True(t, CrossesMidnight(start, end))
		}
	}
}

func TestShiftDurationHours_IdenticalStartEndIsFullDay(t *testing.T) {
	for _, s := range []string{"00:00:00", "09:00:00", "22:30:00"} {
		tod := MustTimeOfDay(s)
		assert.Equal(t, 24.0, ShiftDurationHours(tod, tod))
		// idempotent
		assert.Equal(t, ShiftDurationHours(tod, tod), ShiftDurationHours(tod, tod))
	}
}

func TestCrossesMidnight(t *testing.T) {
	assert.False(t, CrossesMidnight(MustTimeOfDay("09:00"), MustTimeOfDay("17:00")))
	assert.True(t, CrossesMidnight(MustTimeOfDay("22:00"), MustTimeOfDay("06:00")))
	assert.True(t, CrossesMidnight(MustTimeOfDay("08:00"), MustTimeOfDay("08:00")))
}
