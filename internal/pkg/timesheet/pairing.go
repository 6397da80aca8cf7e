package timesheet

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DateLayout is the calendar-day key used by DailyHours.
const DateLayout = "2006-01-02"

// DailyHours maps a calendar day (YYYY-MM-DD) to worked hours.
type DailyHours map[string]float64

// Dates returns the days in ascending order.
func (d DailyHours) Dates() []string {
	dates := make([]string, 0, len(d))
	for date := range d {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Total sums the days in date order so repeated calls give identical floats.
func (d DailyHours) Total() float64 {
	var total float64
	for _, date := range d.Dates() {
		total += d[date]
	}
	return total
}

const (
	AnomalyMissingPair  = "missing_paired_event"
	AnomalyInvalidRange = "invalid_time_range"
)

// Anomaly describes a day that could not be paired cleanly. It unwraps to
// ErrMissingPairedEvent or ErrInvalidTimeRange.
type Anomaly struct {
	UserID   string     `json:"user_id"`
	Date     string     `json:"date"`
	Code     string     `json:"code"`
	Kind     error      `json:"-"`
	CheckIn  *time.Time `json:"check_in,omitempty"`
	CheckOut *time.Time `json:"check_out,omitempty"`
}

func (a Anomaly) Error() string {
	return fmt.Sprintf("%s on %s: %v", a.UserID, a.Date, a.Kind)
}

func (a Anomaly) Unwrap() error {
	return a.Kind
}

// Pairing is the outcome of PairDailyAttendance.
type Pairing struct {
	Hours     DailyHours
	Anomalies []Anomaly
}

// PairDailyAttendance computes worked hours per calendar day for one user.
//
// Events outside [rangeStart, rangeEnd) or for other users are ignored. Days are
// keyed by the date of each timestamp in its own offset. Each day's events are
// ordered by timestamp and the earliest check-in is paired with the earliest
// check-out. A day missing either side, or whose check-out precedes the
// check-in, counts as zero hours and is reported in Anomalies.
func PairDailyAttendance(events []Event, userID string, rangeStart, rangeEnd time.Time) (Pairing, error) {
	if userID == "" {
		return Pairing{}, fmt.Errorf("%w: user id is required", ErrMalformedEvent)
	}
	if rangeEnd.Before(rangeStart) {
		return Pairing{}, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, rangeEnd.Format(time.RFC3339), rangeStart.Format(time.RFC3339))
	}

	byDay := make(map[string][]Event)
	for i, ev := range events {
		if ev.UserID != userID {
			continue
		}
		if err := ev.validate(); err != nil {
			return Pairing{}, fmt.Errorf("event %d: %w", i, err)
		}
		if ev.Timestamp.Before(rangeStart) || !ev.Timestamp.Before(rangeEnd) {
			continue
		}
		day := ev.Timestamp.Format(DateLayout)
		byDay[day] = append(byDay[day], ev)
	}

	result := Pairing{Hours: make(DailyHours, len(byDay))}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		hours, anomaly := pairDay(byDay[day])
		result.Hours[day] = hours
		if anomaly != nil {
			anomaly.UserID = userID
			anomaly.Date = day
			result.Anomalies = append(result.Anomalies, *anomaly)
		}
	}

	return result, nil
}

func pairDay(dayEvents []Event) (float64, *Anomaly) {
	sorted := make([]Event, len(dayEvents))
	copy(sorted, dayEvents)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var in, out *time.Time
	for i := range sorted {
		ts := sorted[i].Timestamp
		switch sorted[i].Type {
		case CheckIn:
			if in == nil {
				in = &ts
			}
		case CheckOut:
			if out == nil {
				out = &ts
			}
		}
	}

	if in == nil || out == nil {
		return 0, &Anomaly{Code: AnomalyMissingPair, Kind: ErrMissingPairedEvent, CheckIn: in, CheckOut: out}
	}

	worked := out.Sub(*in)
	if worked < 0 {
		return 0, &Anomaly{Code: AnomalyInvalidRange, Kind: ErrInvalidTimeRange, CheckIn: in, CheckOut: out}
	}

	return worked.Hours(), nil
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
