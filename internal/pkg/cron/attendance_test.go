package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAttendanceRepo struct {
	attendance.AttendanceRepository
	rows  []attendance.Attendance
	err   error
	calls int
	start time.Time
	end   time.Time
}

func (s *stubAttendanceRepo) ListInRange(_ context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	s.calls++
	s.start, s.end = start, end
	if s.err != nil {
		return nil, s.err
	}
	var out []attendance.Attendance
	for _, r := range s.rows {
		if !r.Timestamp.Before(start) && r.Timestamp.Before(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func row(userID string, kind timesheet.EventType, ts string) attendance.Attendance {
	t, _ := time.Parse(time.RFC3339, ts)
	return attendance.Attendance{UserID: userID, Type: kind, Timestamp: t}
}

func newJobs(repo attendance.AttendanceRepository, now string) *AttendanceJobs {
	jobs := NewAttendanceJobs(repo, time.UTC)
	t, _ := time.Parse(time.RFC3339, now)
	jobs.now = func() time.Time { return t }
	return jobs
}

func TestAuditDay_ReportsAnomaliesPerUser(t *testing.T) {
	repo := &stubAttendanceRepo{rows: []attendance.Attendance{
		row("u1", timesheet.CheckIn, "2024-03-04T09:00:00Z"),
		row("u1", timesheet.CheckOut, "2024-03-04T17:00:00Z"),
		row("u2", timesheet.CheckIn, "2024-03-04T09:00:00Z"),
		row("u3", timesheet.CheckIn, "2024-03-04T12:00:00Z"),
		row("u3", timesheet.CheckOut, "2024-03-04T08:00:00Z"),
		row("u4", timesheet.CheckIn, "2024-03-05T09:00:00Z"),
	}}
	jobs := newJobs(repo, "2024-03-05T02:00:00Z")

	anomalies, err := jobs.auditDay(context.Background(), time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, anomalies, 2)

	assert.Equal(t, "u2", anomalies[0].UserID)
	assert.Equal(t, timesheet.AnomalyMissingPair, anomalies[0].Code)
	assert.Equal(t, "u3", anomalies[1].UserID)
	assert.Equal(t, timesheet.AnomalyInvalidRange, anomalies[1].Code)
	assert.Equal(t, "2024-03-04", anomalies[1].Date)
}

func TestAuditDay_SkipsMalformedRows(t *testing.T) {
	repo := &stubAttendanceRepo{rows: []attendance.Attendance{
		row("u1", timesheet.CheckIn, "2024-03-04T09:00:00Z"),
		row("u1", timesheet.EventType("break"), "2024-03-04T12:00:00Z"),
		row("u1", timesheet.CheckOut, "2024-03-04T17:00:00Z"),
	}}
	jobs := newJobs(repo, "2024-03-05T02:00:00Z")

	anomalies, err := jobs.auditDay(context.Background(), time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, anomalies)
}

func TestAuditAnomalies_SkipsBeforeAuditHour(t *testing.T) {
	repo := &stubAttendanceRepo{}
	jobs := newJobs(repo, "2024-03-05T00:30:00Z")

	require.NoError(t, jobs.AuditAnomalies(context.Background()))
	assert.Zero(t, repo.calls)
}

func TestAuditAnomalies_RunsOncePerDay(t *testing.T) {
	repo := &stubAttendanceRepo{}
	jobs := newJobs(repo, "2024-03-05T01:10:00Z")

	require.NoError(t, jobs.AuditAnomalies(context.Background()))
	require.NoError(t, jobs.AuditAnomalies(context.Background()))
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), repo.start)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), repo.end)
}

func TestAuditAnomalies_RetriesAfterFailure(t *testing.T) {
	repo := &stubAttendanceRepo{err: errors.New("db down")}
	jobs := newJobs(repo, "2024-03-05T03:00:00Z")

	require.Error(t, jobs.AuditAnomalies(context.Background()))
	repo.err = nil
	require.NoError(t, jobs.AuditAnomalies(context.Background()))
	assert.Equal(t, 2, repo.calls)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var ran []string
	s.AddJob("a", time.Hour, func(context.Context) error { ran = append(ran, "a"); return nil })
	s.AddJob("b", time.Hour, func(context.Context) error { ran = append(ran, "b"); return errors.New("boom") })

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"a", "b"}, ran)
}

func TestScheduler_RecoversPanics(t *testing.T) {
	s := NewScheduler()
	after := false
	s.AddJob("panics", time.Hour, func(context.Context) error { panic("kaboom") })
	s.AddJob("after", time.Hour, func(context.Context) error { after = true; return nil })

	assert.NotPanics(t, func() { s.RunOnce(context.Background()) })
	assert.True(t, after)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()
	done := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
