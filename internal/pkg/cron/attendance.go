package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
)

// auditHourUTC is the earliest UTC hour at which the daily audit runs.
const auditHourUTC = 1

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	loc            *time.Location
	now            func() time.Time

	mu      sync.Mutex
	lastRun string
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository, loc *time.Location) *AttendanceJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		loc:            loc,
		now:            time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("attendance_anomaly_audit", 1*time.Hour, j.AuditAnomalies)
}

// AuditAnomalies pairs yesterday's events for every user and logs each day
// that could not be paired. It acts at most once per UTC day.
func (j *AttendanceJobs) AuditAnomalies(ctx context.Context) error {
	now := j.now().UTC()
	if now.Hour() < auditHourUTC {
		return nil
	}

	today := now.Format(timesheet.DateLayout)
	j.mu.Lock()
	if j.lastRun == today {
		j.mu.Unlock()
		return nil
	}
	j.lastRun = today
	j.mu.Unlock()

	anomalies, err := j.auditDay(ctx, now.In(j.loc).AddDate(0, 0, -1))
	if err != nil {
		j.mu.Lock()
		j.lastRun = ""
		j.mu.Unlock()
		return err
	}

	for _, a := range anomalies {
		slog.Warn("Cron: attendance anomaly",
			"user_id", a.UserID, "date", a.Date, "code", a.Code)
	}
	slog.Info("Cron: attendance anomaly audit completed", "anomalies", len(anomalies))
	return nil
}

func (j *AttendanceJobs) auditDay(ctx context.Context, day time.Time) ([]timesheet.Anomaly, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, j.loc)
	end := start.AddDate(0, 0, 1)

	rows, err := j.attendanceRepo.ListInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for %s: %w", start.Format(timesheet.DateLayout), err)
	}

	byUser := make(map[string][]timesheet.Event)
	for _, row := range rows {
		ev, err := row.Event()
		if err != nil {
			slog.Error("Cron: skipping malformed attendance row", "attendance_id", row.ID, "error", err)
			continue
		}
		ev.Timestamp = ev.Timestamp.In(j.loc)
		byUser[row.UserID] = append(byUser[row.UserID], ev)
	}

	userIDs := make([]string, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	var anomalies []timesheet.Anomaly
	for _, userID := range userIDs {
		pairing, err := timesheet.PairDailyAttendance(byUser[userID], userID, start, end)
		if err != nil {
			slog.Error("Cron: failed to pair attendance", "user_id", userID, "error", err)
			continue
		}
		anomalies = append(anomalies, pairing.Anomalies...)
	}
	return anomalies, nil
}
