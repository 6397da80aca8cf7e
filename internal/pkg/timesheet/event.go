package timesheet

import (
	"fmt"
	"strings"
	"time"
)

type EventType string

const (
	CheckIn  EventType = "check_in"
	CheckOut EventType = "check_out"
)

func (t EventType) IsValid() bool {
	return t == CheckIn || t == CheckOut
}

// Event is a single punch. Events are immutable once written.
type Event struct {
	UserID    string
	Timestamp time.Time
	Type      EventType
	Location  *string
	Notes     *string
}

// NewEvent builds an Event from stored row fields. Rows the pairing engine
// cannot use are rejected with ErrMalformedEvent.
func NewEvent(userID string, ts time.Time, eventType string, location, notes *string) (Event, error) {
	ev := Event{
		UserID:    userID,
		Timestamp: ts,
		Type:      EventType(eventType),
		Location:  location,
		Notes:     notes,
	}
	if err := ev.validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func (e Event) validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrMalformedEvent)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp is required", ErrMalformedEvent)
	}
	if !e.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, e.Type)
	}
	return nil
}
