package timesheet

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time with no date, second precision.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay accepts "HH:MM:SS" and "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
}

// MustTimeOfDay is ParseTimeOfDay for constants; it panics on bad input.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// On places t on the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, t.Second, 0, date.Location())
}

// shiftAnchor is the arbitrary common date both ends of a shift are placed on.
var shiftAnchor = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// ShiftDuration returns the elapsed time from start to end. When end is not
// after start the shift crosses midnight, so identical times mean 24 hours.
func ShiftDuration(start, end TimeOfDay) time.Duration {
	s := start.On(shiftAnchor)
	e := end.On(shiftAnchor)
	if !e.After(s) {
		e = e.Add(24 * time.Hour)
	}
	return e.Sub(s)
}

// CrossesMidnight reports whether the shift ends on the following day.
func CrossesMidnight(start, end TimeOfDay) bool {
	return !end.On(shiftAnchor).After(start.On(shiftAnchor))
}

// ShiftDurationHours is ShiftDuration in hours rounded to two decimals.
func ShiftDurationHours(start, end TimeOfDay) float64 {
	return Round2(ShiftDuration(start, end).Hours())
}
