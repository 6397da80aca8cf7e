package shift

import (
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
)

type Shift struct {
	ID        string
	Name      string
	StartTime timesheet.TimeOfDay
	EndTime   timesheet.TimeOfDay
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationHours is the shift length; an end at or before the start runs into the next day.
func (s Shift) DurationHours() float64 {
	return timesheet.ShiftDurationHours(s.StartTime, s.EndTime)
}

func (s Shift) CrossesMidnight() bool {
	return timesheet.CrossesMidnight(s.StartTime, s.EndTime)
}

// Occurrence returns the shift's start and end on the given calendar day in loc.
func (s Shift) Occurrence(day time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	start := s.StartTime.On(date)
	return start, start.Add(timesheet.ShiftDuration(s.StartTime, s.EndTime))
}
