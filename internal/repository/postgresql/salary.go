package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
	"github.com/jackc/pgx/v5"
)

const salaryColumns = `
	s.id, s.user_id, s.month, s.base_salary, s.bonus, s.deductions, s.hours_worked::float8,
	s.total_salary, s.notes, s.created_at, s.updated_at,
	NULLIF(TRIM(CONCAT_WS(' ', u.first_name, u.last_name)), '') AS user_name,
	u.email AS user_email`

type salaryRepository struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) salary.SalaryRepository {
	return &salaryRepository{db: db}
}

func scanSalary(row pgx.Row) (salary.Salary, error) {
	var (
		s     salary.Salary
		month time.Time
	)
	err := row.Scan(
		&s.ID, &s.UserID, &month, &s.BaseSalary, &s.Bonus, &s.Deductions, &s.HoursWorked,
		&s.TotalSalary, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
		&s.UserName, &s.UserEmail,
	)
	if err != nil {
		return salary.Salary{}, err
	}
	s.Month = timesheet.MonthOf(month)
	return s, nil
}

func collectSalaries(rows pgx.Rows) ([]salary.Salary, error) {
	defer rows.Close()

	var salaries []salary.Salary
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary: %w", err)
		}
		salaries = append(salaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salaries: %w", err)
	}
	return salaries, nil
}

// Upsert implements salary.SalaryRepository.
func (r *salaryRepository) Upsert(ctx context.Context, s salary.Salary) (salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH saved AS (
			INSERT INTO salaries (user_id, month, base_salary, bonus, deductions, hours_worked, notes)
			VALUES ($1, $2::date, $3, $4, $5, $6, $7)
			ON CONFLICT (user_id, month) DO UPDATE
			SET base_salary = EXCLUDED.base_salary,
				bonus = EXCLUDED.bonus,
				deductions = EXCLUDED.deductions,
				hours_worked = EXCLUDED.hours_worked,
				notes = EXCLUDED.notes,
				updated_at = NOW()
			RETURNING *
		)
		SELECT ` + salaryColumns + `
		FROM saved s
		LEFT JOIN users u ON u.id = s.user_id
	`

	saved, err := scanSalary(q.QueryRow(ctx, query,
		s.UserID,
		s.Month.FirstDay(),
		s.BaseSalary,
		s.Bonus,
		s.Deductions,
		s.HoursWorked,
		s.Notes,
	))
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return salary.Salary{}, salary.ErrUserNotFound
		}
		return salary.Salary{}, fmt.Errorf("failed to upsert salary: %w", err)
	}
	return saved, nil
}

// GetByID implements salary.SalaryRepository.
func (r *salaryRepository) GetByID(ctx context.Context, id string) (salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + `
		FROM salaries s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`

	return scanSalary(q.QueryRow(ctx, query, id))
}

// List implements salary.SalaryRepository.
func (r *salaryRepository) List(ctx context.Context, filter salary.SalaryFilter) ([]salary.Salary, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND s.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Month != nil && *filter.Month != "" {
		month, err := timesheet.ParseYearMonth(*filter.Month)
		if err != nil {
			return nil, 0, err
		}
		baseWhere += fmt.Sprintf(" AND s.month = $%d::date", argIdx)
		args = append(args, month.FirstDay())
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM salaries s WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count salaries: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM salaries s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE %s
		ORDER BY s.month DESC, s.created_at DESC
		LIMIT $%d OFFSET $%d
	`, salaryColumns, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query salaries: %w", err)
	}
	salaries, err := collectSalaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return salaries, total, nil
}

// ListAll implements salary.SalaryRepository.
func (r *salaryRepository) ListAll(ctx context.Context) ([]salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + `
		FROM salaries s
		LEFT JOIN users u ON u.id = s.user_id
		ORDER BY s.month DESC, u.first_name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query salaries: %w", err)
	}
	return collectSalaries(rows)
}

// Delete implements salary.SalaryRepository.
func (r *salaryRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM salaries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete salary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// MonthlyTrends implements salary.SalaryRepository.
func (r *salaryRepository) MonthlyTrends(ctx context.Context, since timesheet.YearMonth) ([]salary.MonthlyTrend, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT month,
			   COUNT(DISTINCT user_id),
			   COALESCE(SUM(total_salary), 0),
			   COALESCE(SUM(bonus), 0),
			   COALESCE(SUM(deductions), 0),
			   COALESCE(SUM(hours_worked), 0)::float8
		FROM salaries
		WHERE month >= $1::date
		GROUP BY month
		ORDER BY month ASC
	`

	rows, err := q.Query(ctx, query, since.FirstDay())
	if err != nil {
		return nil, fmt.Errorf("failed to query salary trends: %w", err)
	}
	defer rows.Close()

	var trends []salary.MonthlyTrend
	for rows.Next() {
		var (
			t     salary.MonthlyTrend
			month time.Time
		)
		if err := rows.Scan(&month, &t.EmployeeCount, &t.TotalPayroll, &t.TotalBonus, &t.TotalDeductions, &t.TotalHours); err != nil {
			return nil, fmt.Errorf("failed to scan salary trend: %w", err)
		}
		t.Month = timesheet.MonthOf(month)
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

// LatestPerUser implements salary.SalaryRepository. Each user's most recent
// row since the given month, highest total first.
func (r *salaryRepository) LatestPerUser(ctx context.Context, since timesheet.YearMonth, limit int) ([]salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + `
		FROM (
			SELECT DISTINCT ON (user_id) *
			FROM salaries
			WHERE month >= $1::date
			ORDER BY user_id, month DESC
		) s
		LEFT JOIN users u ON u.id = s.user_id
		ORDER BY s.total_salary DESC, s.user_id
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, since.FirstDay(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest salaries: %w", err)
	}
	return collectSalaries(rows)
}

// Summary implements salary.SalaryRepository.
func (r *salaryRepository) Summary(ctx context.Context, since timesheet.YearMonth) (salary.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(total_salary), 0), COUNT(*), COUNT(DISTINCT user_id)
		FROM salaries
		WHERE month >= $1::date
	`

	var s salary.Summary
	if err := q.QueryRow(ctx, query, since.FirstDay()).Scan(&s.TotalPayout, &s.RecordCount, &s.EmployeeCount); err != nil {
		return salary.Summary{}, fmt.Errorf("failed to query salary summary: %w", err)
	}
	return s, nil
}
