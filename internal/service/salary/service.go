package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

// topEmployeesLimit bounds the employee comparison in Statistics.
const topEmployeesLimit = 10

type SalaryServiceImpl struct {
	salaryRepo     salary.SalaryRepository
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository

	loc *time.Location
	now func() time.Time
}

func NewSalaryService(
	salaryRepo salary.SalaryRepository,
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	loc *time.Location,
) salary.SalaryService {
	if loc == nil {
		loc = time.UTC
	}
	return &SalaryServiceImpl{
		salaryRepo:     salaryRepo,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		loc:            loc,
		now:            time.Now,
	}
}

// monthlyReport pairs the user's attendance for the month in the configured timezone.
func (s *SalaryServiceImpl) monthlyReport(ctx context.Context, userID string, month timesheet.YearMonth) (timesheet.MonthlyReport, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.MonthlyReport{}, salary.ErrUserNotFound
		}
		return timesheet.MonthlyReport{}, fmt.Errorf("failed to get user: %w", err)
	}

	rows, err := s.attendanceRepo.ListByUserInRange(ctx, userID, month.Start(s.loc), month.End(s.loc))
	if err != nil {
		return timesheet.MonthlyReport{}, fmt.Errorf("failed to get attendance for month: %w", err)
	}

	events, err := attendance.Events(rows)
	if err != nil {
		return timesheet.MonthlyReport{}, fmt.Errorf("failed to read attendance for month: %w", err)
	}
	for i := range events {
		events[i].Timestamp = events[i].Timestamp.In(s.loc)
	}

	report, err := timesheet.Monthly(events, userID, month, s.loc)
	if err != nil {
		return timesheet.MonthlyReport{}, fmt.Errorf("failed to compute hours worked: %w", err)
	}
	if report.Anomalies == nil {
		report.Anomalies = []timesheet.Anomaly{}
	}
	return report, nil
}

// Upsert implements salary.SalaryService.
func (s *SalaryServiceImpl) Upsert(ctx context.Context, req salary.UpsertSalaryRequest) (salary.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryResponse{}, err
	}
	month, _ := timesheet.ParseYearMonth(req.Month)

	report, err := s.monthlyReport(ctx, req.UserID, month)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	for _, anomaly := range report.Anomalies {
		slog.Warn("Attendance anomaly in salary month",
			"user_id", anomaly.UserID, "date", anomaly.Date, "code", anomaly.Code, "month", month.String())
	}

	saved, err := s.salaryRepo.Upsert(ctx, salary.Salary{
		UserID:      req.UserID,
		Month:       month,
		BaseSalary:  req.BaseSalary,
		Bonus:       req.Bonus,
		Deductions:  req.Deductions,
		HoursWorked: report.HoursWorked,
		Notes:       req.Notes,
	})
	if err != nil {
		return salary.SalaryResponse{}, fmt.Errorf("failed to save salary: %w", err)
	}

	slog.Info("Salary saved", "salary_id", saved.ID, "user_id", saved.UserID, "month", month.String(), "hours_worked", saved.HoursWorked)

	resp := salary.NewSalaryResponse(saved)
	resp.Anomalies = report.Anomalies
	return resp, nil
}

// Get implements salary.SalaryService. Employees may only read their own rows.
func (s *SalaryServiceImpl) Get(ctx context.Context, id string) (salary.SalaryResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return salary.SalaryResponse{}, err
	}

	row, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.SalaryResponse{}, salary.ErrSalaryNotFound
		}
		return salary.SalaryResponse{}, fmt.Errorf("failed to get salary: %w", err)
	}

	if row.UserID != claims.UserID && !claims.IsAdmin() {
		return salary.SalaryResponse{}, salary.ErrSalaryForbidden
	}
	return salary.NewSalaryResponse(row), nil
}

// List implements salary.SalaryService.
func (s *SalaryServiceImpl) List(ctx context.Context, filter salary.SalaryFilter) (salary.ListSalaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return salary.ListSalaryResponse{}, err
	}

	rows, total, err := s.salaryRepo.List(ctx, filter)
	if err != nil {
		return salary.ListSalaryResponse{}, fmt.Errorf("failed to list salaries: %w", err)
	}

	responses := make([]salary.SalaryResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, salary.NewSalaryResponse(row))
	}

	return salary.ListSalaryResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Salaries:   responses,
	}, nil
}

// ListMy implements salary.SalaryService.
func (s *SalaryServiceImpl) ListMy(ctx context.Context, filter salary.SalaryFilter) (salary.ListSalaryResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return salary.ListSalaryResponse{}, err
	}
	filter.UserID = &claims.UserID
	return s.List(ctx, filter)
}

// Delete implements salary.SalaryService.
func (s *SalaryServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.salaryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.ErrSalaryNotFound
		}
		return fmt.Errorf("failed to delete salary: %w", err)
	}
	return nil
}

// PreviewHours implements salary.SalaryService.
func (s *SalaryServiceImpl) PreviewHours(ctx context.Context, query salary.PreviewHoursQuery) (timesheet.MonthlyReport, error) {
	if err := query.Validate(); err != nil {
		return timesheet.MonthlyReport{}, err
	}
	month, _ := timesheet.ParseYearMonth(query.Month)
	return s.monthlyReport(ctx, query.UserID, month)
}

// Statistics implements salary.SalaryService. The period covers query.Months
// calendar months ending with the current one.
func (s *SalaryServiceImpl) Statistics(ctx context.Context, query salary.StatisticsQuery) (salary.StatisticsResponse, error) {
	if err := query.Validate(); err != nil {
		return salary.StatisticsResponse{}, err
	}

	current := timesheet.MonthOf(s.now().In(s.loc))
	since := timesheet.MonthOf(current.Start(time.UTC).AddDate(0, -(query.Months - 1), 0))

	var (
		trends  []salary.MonthlyTrend
		latest  []salary.Salary
		summary salary.Summary
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		trends, err = s.salaryRepo.MonthlyTrends(gCtx, since)
		if err != nil {
			return fmt.Errorf("failed to get monthly trends: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		latest, err = s.salaryRepo.LatestPerUser(gCtx, since, topEmployeesLimit)
		if err != nil {
			return fmt.Errorf("failed to get latest salaries: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		summary, err = s.salaryRepo.Summary(gCtx, since)
		if err != nil {
			return fmt.Errorf("failed to get salary summary: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return salary.StatisticsResponse{}, err
	}

	trendResponses := make([]salary.MonthlyTrendResponse, 0, len(trends))
	for _, t := range trends {
		trendResponses = append(trendResponses, salary.MonthlyTrendResponse{
			Month:           t.Month.String(),
			EmployeeCount:   t.EmployeeCount,
			TotalPayroll:    t.TotalPayroll,
			AverageSalary:   t.AverageSalary(),
			TotalBonus:      t.TotalBonus,
			TotalDeductions: t.TotalDeductions,
			TotalHours:      timesheet.Round2(t.TotalHours),
		})
	}

	top := make([]salary.EmployeeComparison, 0, len(latest))
	for _, row := range latest {
		top = append(top, salary.EmployeeComparison{
			UserID:      row.UserID,
			UserName:    displayName(row),
			Month:       row.Month.String(),
			BaseSalary:  row.BaseSalary,
			Bonus:       row.Bonus,
			TotalSalary: row.TotalSalary,
			HoursWorked: row.HoursWorked,
		})
	}

	return salary.StatisticsResponse{
		Since:         since.String(),
		TotalPayout:   summary.TotalPayout,
		AverageSalary: summary.AverageSalary(),
		EmployeeCount: summary.EmployeeCount,
		Trends:        trendResponses,
		TopEmployees:  top,
	}, nil
}

func displayName(row salary.Salary) string {
	if row.UserName != nil && *row.UserName != "" {
		return *row.UserName
	}
	if row.UserEmail != nil {
		return *row.UserEmail
	}
	return row.UserID
}
