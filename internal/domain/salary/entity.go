package salary

import (
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
	"github.com/shopspring/decimal"
)

// Salary is one user's pay for one month. TotalSalary is computed by the
// database as base + bonus - deductions.
type Salary struct {
	ID          string
	UserID      string
	Month       timesheet.YearMonth
	BaseSalary  decimal.Decimal
	Bonus       decimal.Decimal
	Deductions  decimal.Decimal
	HoursWorked float64
	TotalSalary decimal.Decimal
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	UserName  *string
	UserEmail *string
}

// MonthlyTrend aggregates every salary row of one month.
type MonthlyTrend struct {
	Month           timesheet.YearMonth
	EmployeeCount   int
	TotalPayroll    decimal.Decimal
	TotalBonus      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalHours      float64
}

func (t MonthlyTrend) AverageSalary() decimal.Decimal {
	if t.EmployeeCount == 0 {
		return decimal.Zero
	}
	return t.TotalPayroll.Div(decimal.NewFromInt(int64(t.EmployeeCount))).Round(2)
}

// Summary totals the salary rows of a period.
type Summary struct {
	TotalPayout   decimal.Decimal
	RecordCount   int
	EmployeeCount int
}

func (s Summary) AverageSalary() decimal.Decimal {
	if s.RecordCount == 0 {
		return decimal.Zero
	}
	return s.TotalPayout.Div(decimal.NewFromInt(int64(s.RecordCount))).Round(2)
}
