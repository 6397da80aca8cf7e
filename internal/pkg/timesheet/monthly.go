package timesheet

import (
	"fmt"
	"strings"
	"time"
)

// YearMonth is a calendar month without a location.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth accepts "YYYY-MM" and the "YYYY-MM-01" form stored in salary rows.
func ParseYearMonth(s string) (YearMonth, error) {
	s = strings.TrimSpace(s)
	layout := "2006-01"
	if len(s) == len("2006-01-02") {
		layout = DateLayout
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	if layout == DateLayout && t.Day() != 1 {
		return YearMonth{}, fmt.Errorf("%w: %q is not the first day of a month", ErrInvalidMonth, s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing t in t's own location.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Start is midnight of the first day of the month in loc.
func (m YearMonth) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
}

// End is midnight of the first day of the next month in loc.
func (m YearMonth) End(loc *time.Location) time.Time {
	return m.Start(loc).AddDate(0, 1, 0)
}

// FirstDay renders the month as its first day, the salary row key.
func (m YearMonth) FirstDay() string {
	return m.Start(time.UTC).Format(DateLayout)
}

func (m YearMonth) String() string {
	return m.Start(time.UTC).Format("2006-01")
}

func (m YearMonth) Prev() YearMonth {
	return MonthOf(m.Start(time.UTC).AddDate(0, -1, 0))
}

// MonthlyReport carries the per-day breakdown behind a monthly total.
type MonthlyReport struct {
	UserID      string     `json:"user_id"`
	Month       string     `json:"month"`
	Daily       DailyHours `json:"daily"`
	HoursWorked float64    `json:"hours_worked"`
	Anomalies   []Anomaly  `json:"anomalies"`
}

// MonthlyHoursWorked sums the paired daily hours of userID over
// [first of month, first of next month) in loc, rounded to two decimals.
func MonthlyHoursWorked(events []Event, userID string, month YearMonth, loc *time.Location) (float64, error) {
	report, err := Monthly(events, userID, month, loc)
	if err != nil {
		return 0, err
	}
	return report.HoursWorked, nil
}

// Monthly is MonthlyHoursWorked with the daily breakdown and anomalies.
func Monthly(events []Event, userID string, month YearMonth, loc *time.Location) (MonthlyReport, error) {
	if month.Month < time.January || month.Month > time.December {
		return MonthlyReport{}, fmt.Errorf("%w: month %d", ErrInvalidMonth, month.Month)
	}

	pairing, err := PairDailyAttendance(events, userID, month.Start(loc), month.End(loc))
	if err != nil {
		return MonthlyReport{}, err
	}

	return MonthlyReport{
		UserID:      userID,
		Month:       month.String(),
		Daily:       pairing.Hours,
		HoursWorked: Round2(pairing.Hours.Total()),
		Anomalies:   pairing.Anomalies,
	}, nil
}
