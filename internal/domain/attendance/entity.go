package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
)

// Attendance is one immutable check-in or check-out event.
type Attendance struct {
	ID        string
	UserID    string
	Timestamp time.Time
	Type      timesheet.EventType
	Location  *string
	Latitude  *float64
	Longitude *float64
	ProofPath *string
	Notes     *string
	CreatedAt time.Time

	// Join
	UserName  *string
	UserEmail *string
}

// Event validates the row and converts it into the pairing engine's input.
func (a Attendance) Event() (timesheet.Event, error) {
	ev, err := timesheet.NewEvent(a.UserID, a.Timestamp, string(a.Type), a.Location, a.Notes)
	if err != nil {
		return timesheet.Event{}, fmt.Errorf("attendance %s: %w", a.ID, err)
	}
	return ev, nil
}

// Events converts rows, failing on the first malformed one.
func Events(rows []Attendance) ([]timesheet.Event, error) {
	events := make([]timesheet.Event, 0, len(rows))
	for _, r := range rows {
		ev, err := r.Event()
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
