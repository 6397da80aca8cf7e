package shift

import (
	"context"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nightID = "66666666-6666-6666-6666-666666666666"

type fakeRepo struct {
	shifts map[string]shift.Shift
}

func (f *fakeRepo) List(context.Context) ([]shift.Shift, error) {
	out := make([]shift.Shift, 0, len(f.shifts))
	for _, s := range f.shifts {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (shift.Shift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return shift.Shift{}, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeRepo) Create(_ context.Context, s shift.Shift) (shift.Shift, error) {
	for _, existing := range f.shifts {
		if existing.Name == s.Name {
			return shift.Shift{}, shift.ErrShiftNameExists
		}
	}
	s.ID = "77777777-7777-7777-7777-777777777777"
	f.shifts[s.ID] = s
	return s, nil
}

func (f *fakeRepo) Update(_ context.Context, s shift.Shift) (shift.Shift, error) {
	if _, ok := f.shifts[s.ID]; !ok {
		return shift.Shift{}, pgx.ErrNoRows
	}
	f.shifts[s.ID] = s
	return s, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.shifts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.shifts, id)
	return nil
}

func newService(t *testing.T) (*ShiftServiceImpl, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{shifts: map[string]shift.Shift{
		nightID: {
			ID:        nightID,
			Name:      "Night",
			StartTime: timesheet.MustTimeOfDay("22:00"),
			EndTime:   timesheet.MustTimeOfDay("06:00"),
		},
	}}
	svc := NewShiftService(repo, time.UTC).(*ShiftServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newService(t)

	created, err := svc.Create(context.Background(), shift.CreateShiftRequest{Name: "Morning", StartTime: "08:00", EndTime: "16:00"})
	require.NoError(t, err)
	assert.Equal(t, 8.0, created.DurationHours)
	assert.False(t, created.CrossesMidnight)

	_, err = svc.Create(context.Background(), shift.CreateShiftRequest{Name: "Morning", StartTime: "07:00", EndTime: "15:00"})
	assert.ErrorIs(t, err, shift.ErrShiftNameExists)

	night, err := svc.Get(context.Background(), nightID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, night.DurationHours)
	assert.True(t, night.CrossesMidnight)
}

func TestUpdateAndDelete_NotFound(t *testing.T) {
	svc, _ := newService(t)
	missing := "88888888-8888-8888-8888-888888888888"

	_, err := svc.Update(context.Background(), shift.UpdateShiftRequest{
		ID:                 missing,
		CreateShiftRequest: shift.CreateShiftRequest{Name: "X", StartTime: "09:00", EndTime: "17:00"},
	})
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), missing), shift.ErrShiftNotFound)
	assert.NoError(t, svc.Delete(context.Background(), nightID))
}

func TestCalendar(t *testing.T) {
	svc, _ := newService(t)

	body, err := svc.Calendar(context.Background(), shift.CalendarQuery{ShiftID: nightID, From: "2024-03-10", Days: 3})
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(string(body)))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 3)

	start, err := events[0].GetStartAt()
	require.NoError(t, err)
	end, err := events[0].GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 22, 0, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, time.Date(2024, 3, 11, 6, 0, 0, 0, time.UTC), end.UTC())
	assert.Equal(t, "Night", events[2].GetProperty(ics.ComponentPropertySummary).Value)
}

func TestCalendar_UnknownShift(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Calendar(context.Background(), shift.CalendarQuery{ShiftID: "99999999-9999-9999-9999-999999999999"})
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
}
