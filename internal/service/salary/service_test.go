package salary

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/jwt/jwttest"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "11111111-1111-1111-1111-111111111111"
	bob   = "22222222-2222-2222-2222-222222222222"
)

type fakeSalaryRepo struct {
	rows map[string]salary.Salary // keyed by id
	seq  int

	gotSince timesheet.YearMonth
}

func (f *fakeSalaryRepo) Upsert(_ context.Context, s salary.Salary) (salary.Salary, error) {
	for id, existing := range f.rows {
		if existing.UserID == s.UserID && existing.Month == s.Month {
			s.ID = id
		}
	}
	if s.ID == "" {
		f.seq++
		s.ID = fmt.Sprintf("salary-%d", f.seq)
	}
	s.TotalSalary = s.BaseSalary.Add(s.Bonus).Sub(s.Deductions)
	f.rows[s.ID] = s
	return s, nil
}

func (f *fakeSalaryRepo) GetByID(_ context.Context, id string) (salary.Salary, error) {
	s, ok := f.rows[id]
	if !ok {
		return salary.Salary{}, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeSalaryRepo) List(_ context.Context, filter salary.SalaryFilter) ([]salary.Salary, int64, error) {
	var out []salary.Salary
	for _, s := range f.rows {
		if filter.UserID != nil && s.UserID != *filter.UserID {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeSalaryRepo) ListAll(ctx context.Context) ([]salary.Salary, error) {
	out, _, err := f.List(ctx, salary.SalaryFilter{})
	return out, err
}

func (f *fakeSalaryRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeSalaryRepo) MonthlyTrends(_ context.Context, since timesheet.YearMonth) ([]salary.MonthlyTrend, error) {
	f.gotSince = since
	byMonth := map[timesheet.YearMonth]*salary.MonthlyTrend{}
	for _, s := range f.rows {
		if s.Month.Start(time.UTC).Before(since.Start(time.UTC)) {
			continue
		}
		t, ok := byMonth[s.Month]
		if !ok {
			t = &salary.MonthlyTrend{Month: s.Month}
			byMonth[s.Month] = t
		}
		t.EmployeeCount++
		t.TotalPayroll = t.TotalPayroll.Add(s.TotalSalary)
		t.TotalBonus = t.TotalBonus.Add(s.Bonus)
	}
	var out []salary.MonthlyTrend
	for _, t := range byMonth {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Start(time.UTC).Before(out[j].Month.Start(time.UTC)) })
	return out, nil
}

func (f *fakeSalaryRepo) LatestPerUser(_ context.Context, since timesheet.YearMonth, limit int) ([]salary.Salary, error) {
	latest := map[string]salary.Salary{}
	for _, s := range f.rows {
		if cur, ok := latest[s.UserID]; !ok || s.Month.Start(time.UTC).After(cur.Month.Start(time.UTC)) {
			latest[s.UserID] = s
		}
	}
	var out []salary.Salary
	for _, s := range latest {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalSalary.GreaterThan(out[j].TotalSalary) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSalaryRepo) Summary(_ context.Context, since timesheet.YearMonth) (salary.Summary, error) {
	users := map[string]bool{}
	var sum salary.Summary
	for _, s := range f.rows {
		sum.TotalPayout = sum.TotalPayout.Add(s.TotalSalary)
		sum.RecordCount++
		users[s.UserID] = true
	}
	sum.EmployeeCount = len(users)
	return sum, nil
}

type fakeAttendanceRepo struct {
	rows []attendance.Attendance
}

func (f *fakeAttendanceRepo) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	f.rows = append(f.rows, a)
	return a, nil
}

func (f *fakeAttendanceRepo) GetByID(context.Context, string) (attendance.Attendance, error) {
	return attendance.Attendance{}, pgx.ErrNoRows
}

func (f *fakeAttendanceRepo) ListByUserInRange(_ context.Context, userID string, start, end time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, r := range f.rows {
		if r.UserID == userID && !r.Timestamp.Before(start) && r.Timestamp.Before(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListInRange(context.Context, time.Time, time.Time) ([]attendance.Attendance, error) {
	return f.rows, nil
}

func (f *fakeAttendanceRepo) List(context.Context, attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	return f.rows, int64(len(f.rows)), nil
}

func (f *fakeAttendanceRepo) ListRecent(context.Context, int) ([]attendance.Attendance, error) {
	return f.rows, nil
}

func (f *fakeAttendanceRepo) LockUser(context.Context, string) error {
	return nil
}

type fakeUserRepo struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, ids []string) (map[string]user.User, error) {
	out := map[string]user.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeUserRepo) List(context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	f.users[u.ID] = u
	return u, nil
}

type fixture struct {
	svc      *SalaryServiceImpl
	salaries *fakeSalaryRepo
	events   *fakeAttendanceRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		salaries: &fakeSalaryRepo{rows: map[string]salary.Salary{}},
		events:   &fakeAttendanceRepo{},
	}
	users := &fakeUserRepo{users: map[string]user.User{
		alice: {ID: alice, Email: "alice@example.com", FirstName: "Alice", Role: user.RoleEmployee},
		bob:   {ID: bob, Email: "bob@example.com", FirstName: "Bob", Role: user.RoleEmployee},
	}}
	f.svc = NewSalaryService(f.salaries, f.events, users, time.UTC).(*SalaryServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) punch(userID string, ts time.Time, typ timesheet.EventType) {
	f.events.rows = append(f.events.rows, attendance.Attendance{UserID: userID, Timestamp: ts, Type: typ})
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestUpsert_ComputesHoursWorked(t *testing.T) {
	f := newFixture(t)
	day := func(d, h, m int) time.Time { return time.Date(2024, 3, d, h, m, 0, 0, time.UTC) }
	f.punch(alice, day(4, 9, 0), timesheet.CheckIn)
	f.punch(alice, day(4, 17, 30), timesheet.CheckOut)
	f.punch(alice, day(5, 8, 10), timesheet.CheckIn)
	f.punch(alice, day(5, 16, 30), timesheet.CheckOut)
	f.punch(alice, day(6, 9, 0), timesheet.CheckIn)
	// outside the month
	f.punch(alice, time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), timesheet.CheckIn)
	f.punch(alice, time.Date(2024, 4, 1, 17, 0, 0, 0, time.UTC), timesheet.CheckOut)

	resp, err := f.svc.Upsert(context.Background(), salary.UpsertSalaryRequest{
		UserID:     alice,
		Month:      "2024-03",
		BaseSalary: dec(10_000_000),
		Bonus:      dec(500_000),
		Deductions: dec(100_000),
	})
	require.NoError(t, err)
	assert.Equal(t, 16.83, resp.HoursWorked)
	assert.True(t, dec(10_400_000).Equal(resp.TotalSalary))
	assert.Equal(t, "2024-03", resp.Month)
	require.Len(t, resp.Anomalies, 1)
	assert.Equal(t, "2024-03-06", resp.Anomalies[0].Date)
}

func TestUpsert_OneRowPerUserMonth(t *testing.T) {
	f := newFixture(t)
	req := salary.UpsertSalaryRequest{UserID: alice, Month: "2024-03", BaseSalary: dec(100)}

	first, err := f.svc.Upsert(context.Background(), req)
	require.NoError(t, err)
	req.Bonus = dec(50)
	second, err := f.svc.Upsert(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.salaries.rows, 1)
	assert.True(t, dec(150).Equal(second.TotalSalary))
	assert.Equal(t, 0.0, second.HoursWorked)
}

func TestUpsert_UnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Upsert(context.Background(), salary.UpsertSalaryRequest{
		UserID: "99999999-9999-9999-9999-999999999999", Month: "2024-03",
	})
	assert.ErrorIs(t, err, salary.ErrUserNotFound)
}

func TestPreviewHours_DoesNotWrite(t *testing.T) {
	f := newFixture(t)
	f.punch(bob, time.Date(2024, 5, 2, 22, 0, 0, 0, time.UTC), timesheet.CheckOut)
	f.punch(bob, time.Date(2024, 5, 2, 23, 0, 0, 0, time.UTC), timesheet.CheckIn)

	report, err := f.svc.PreviewHours(context.Background(), salary.PreviewHoursQuery{UserID: bob, Month: "2024-05"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.HoursWorked)
	require.Len(t, report.Anomalies, 1)
	assert.ErrorIs(t, report.Anomalies[0], timesheet.ErrInvalidTimeRange)
	assert.Empty(t, f.salaries.rows)
}

func TestPreviewHours_RejectsMalformedRow(t *testing.T) {
	f := newFixture(t)
	f.punch(bob, time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC), timesheet.CheckIn)
	f.punch(bob, time.Date(2024, 5, 2, 17, 0, 0, 0, time.UTC), timesheet.EventType("checkout"))

	_, err := f.svc.PreviewHours(context.Background(), salary.PreviewHoursQuery{UserID: bob, Month: "2024-05"})
	assert.ErrorIs(t, err, timesheet.ErrMalformedEvent)
}

func TestGet_EmployeeSeesOnlyOwnRows(t *testing.T) {
	f := newFixture(t)
	saved, err := f.svc.Upsert(context.Background(), salary.UpsertSalaryRequest{UserID: alice, Month: "2024-03"})
	require.NoError(t, err)

	_, err = f.svc.Get(jwttest.Employee(t, alice, nil), saved.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(jwttest.Employee(t, bob, nil), saved.ID)
	assert.ErrorIs(t, err, salary.ErrSalaryForbidden)
	_, err = f.svc.Get(jwttest.Admin(t, bob), saved.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(jwttest.Admin(t, bob), "nope")
	assert.ErrorIs(t, err, salary.ErrSalaryNotFound)
}

func TestListMy_ScopesToCaller(t *testing.T) {
	f := newFixture(t)
	for _, u := range []string{alice, bob} {
		_, err := f.svc.Upsert(context.Background(), salary.UpsertSalaryRequest{UserID: u, Month: "2024-03"})
		require.NoError(t, err)
	}

	resp, err := f.svc.ListMy(jwttest.Employee(t, bob, nil), salary.SalaryFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Salaries, 1)
	assert.Equal(t, bob, resp.Salaries[0].UserID)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	saved, err := f.svc.Upsert(context.Background(), salary.UpsertSalaryRequest{UserID: alice, Month: "2024-03"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), saved.ID))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), saved.ID), salary.ErrSalaryNotFound)
}

func TestStatistics(t *testing.T) {
	f := newFixture(t)
	upsert := func(userID, month string, base, bonus int64) {
		_, err := f.svc.Upsert(context.Background(), salary.UpsertSalaryRequest{
			UserID: userID, Month: month, BaseSalary: dec(base), Bonus: dec(bonus),
		})
		require.NoError(t, err)
	}
	upsert(alice, "2024-04", 1000, 100)
	upsert(bob, "2024-04", 2000, 0)
	upsert(alice, "2024-05", 3000, 200)

	stats, err := f.svc.Statistics(context.Background(), salary.StatisticsQuery{Months: 3})
	require.NoError(t, err)

	assert.Equal(t, "2024-04", stats.Since)
	assert.Equal(t, timesheet.YearMonth{Year: 2024, Month: time.April}, f.salaries.gotSince)

	require.Len(t, stats.Trends, 2)
	assert.Equal(t, "2024-04", stats.Trends[0].Month)
	assert.True(t, dec(3100).Equal(stats.Trends[0].TotalPayroll))
	assert.True(t, dec(1550).Equal(stats.Trends[0].AverageSalary))
	assert.True(t, dec(100).Equal(stats.Trends[0].TotalBonus))

	require.Len(t, stats.TopEmployees, 2)
	// no joined name, falls back to the id
	assert.Equal(t, alice, stats.TopEmployees[0].UserName)
	assert.Equal(t, alice, stats.TopEmployees[0].UserID)
	assert.Equal(t, "2024-05", stats.TopEmployees[0].Month)

	assert.True(t, dec(6300).Equal(stats.TotalPayout))
	assert.True(t, dec(2100).Equal(stats.AverageSalary))
	assert.Equal(t, 2, stats.EmployeeCount)
}

func TestStatisticsWindowIncludesCurrentMonth(t *testing.T) {
	tests := []struct {
		months int
		since  string
	}{
		{months: 1, since: "2024-06"},
		{months: 6, since: "2024-01"},
		{months: 12, since: "2023-07"},
	}
	for _, tt := range tests {
		f := newFixture(t)
		stats, err := f.svc.Statistics(context.Background(), salary.StatisticsQuery{Months: tt.months})
		require.NoError(t, err)
		assert.Equal(t, tt.since, stats.Since, "months=%d", tt.months)
	}
}
