package salary

import (
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpsertSalaryRequest struct {
	UserID     string          `json:"user_id"`
	Month      string          `json:"month"` // YYYY-MM
	BaseSalary decimal.Decimal `json:"base_salary"`
	Bonus      decimal.Decimal `json:"bonus"`
	Deductions decimal.Decimal `json:"deductions"`
	Notes      *string         `json:"notes,omitempty"`
}

func (r *UpsertSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}
	if _, err := timesheet.ParseYearMonth(r.Month); err != nil {
		errs.Add("month", "month must be in YYYY-MM format")
	}
	if r.BaseSalary.IsNegative() {
		errs.Add("base_salary", "base_salary must not be negative")
	}
	if r.Bonus.IsNegative() {
		errs.Add("bonus", "bonus must not be negative")
	}
	if r.Deductions.IsNegative() {
		errs.Add("deductions", "deductions must not be negative")
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs.Add("notes", "notes must not exceed 1000 characters")
	}

	return errs.OrNil()
}

type SalaryResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	UserName    *string             `json:"user_name,omitempty"`
	UserEmail   *string             `json:"user_email,omitempty"`
	Month       string              `json:"month"`
	BaseSalary  decimal.Decimal     `json:"base_salary"`
	Bonus       decimal.Decimal     `json:"bonus"`
	Deductions  decimal.Decimal     `json:"deductions"`
	HoursWorked float64             `json:"hours_worked"`
	TotalSalary decimal.Decimal     `json:"total_salary"`
	Notes       *string             `json:"notes,omitempty"`
	Anomalies   []timesheet.Anomaly `json:"anomalies,omitempty"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

func NewSalaryResponse(s Salary) SalaryResponse {
	return SalaryResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		UserName:    s.UserName,
		UserEmail:   s.UserEmail,
		Month:       s.Month.String(),
		BaseSalary:  s.BaseSalary,
		Bonus:       s.Bonus,
		Deductions:  s.Deductions,
		HoursWorked: s.HoursWorked,
		TotalSalary: s.TotalSalary,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

type SalaryFilter struct {
	UserID *string `json:"user_id,omitempty"`
	Month  *string `json:"month,omitempty"` // YYYY-MM

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *SalaryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}
	if f.Month != nil {
		if _, err := timesheet.ParseYearMonth(*f.Month); err != nil {
			errs.Add("month", "month must be in YYYY-MM format")
		}
	}

	return errs.OrNil()
}

type ListSalaryResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Salaries   []SalaryResponse `json:"salaries"`
}

type PreviewHoursQuery struct {
	UserID string `json:"user_id"`
	Month  string `json:"month"`
}

func (q *PreviewHoursQuery) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(q.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}
	if _, err := timesheet.ParseYearMonth(q.Month); err != nil {
		errs.Add("month", "month must be in YYYY-MM format")
	}
	return errs.OrNil()
}

type StatisticsQuery struct {
	Months int `json:"months"` // months ending with the current one; default 6, at most 24
}

func (q *StatisticsQuery) Validate() error {
	var errs validator.ValidationErrors
	if q.Months == 0 {
		q.Months = 6
	}
	if q.Months < 1 || q.Months > 24 {
		errs.Add("months", "months must be between 1 and 24")
	}
	return errs.OrNil()
}

type MonthlyTrendResponse struct {
	Month           string          `json:"month"`
	EmployeeCount   int             `json:"employee_count"`
	TotalPayroll    decimal.Decimal `json:"total_payroll"`
	AverageSalary   decimal.Decimal `json:"average_salary"`
	TotalBonus      decimal.Decimal `json:"total_bonus"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalHours      float64         `json:"total_hours"`
}

type EmployeeComparison struct {
	UserID      string          `json:"user_id"`
	UserName    string          `json:"user_name"`
	Month       string          `json:"month"`
	BaseSalary  decimal.Decimal `json:"base_salary"`
	Bonus       decimal.Decimal `json:"bonus"`
	TotalSalary decimal.Decimal `json:"total_salary"`
	HoursWorked float64         `json:"hours_worked"`
}

type StatisticsResponse struct {
	Since         string                 `json:"since"`
	TotalPayout   decimal.Decimal        `json:"total_payout"`
	AverageSalary decimal.Decimal        `json:"average_salary"`
	EmployeeCount int                    `json:"employee_count"`
	Trends        []MonthlyTrendResponse `json:"trends"`
	TopEmployees  []EmployeeComparison   `json:"top_employees"`
}
