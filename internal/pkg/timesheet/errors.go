package timesheet

import "errors"

var (
	// ErrMalformedEvent is returned for events with an unknown type, no user or no timestamp.
	ErrMalformedEvent = errors.New("malformed attendance event")

	// ErrInvalidRange is returned when a range end precedes its start.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrMissingPairedEvent marks a day with only a check-in or only a check-out.
	// It is reported as an anomaly, the day counts as zero hours.
	ErrMissingPairedEvent = errors.New("missing paired attendance event")

	// ErrInvalidTimeRange marks a day whose check-out precedes its check-in.
	// The day is clamped to zero hours and reported as an anomaly.
	ErrInvalidTimeRange = errors.New("check-out precedes check-in")

	ErrInvalidTimeOfDay = errors.New("invalid time of day")
	ErrInvalidMonth     = errors.New("invalid month")
)
