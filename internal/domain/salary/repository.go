package salary

import (
	"context"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
)

type SalaryRepository interface {
	// Upsert inserts or replaces the row keyed by (user_id, month).
	Upsert(ctx context.Context, s Salary) (Salary, error)
	GetByID(ctx context.Context, id string) (Salary, error)
	List(ctx context.Context, filter SalaryFilter) ([]Salary, int64, error)
	ListAll(ctx context.Context) ([]Salary, error)
	Delete(ctx context.Context, id string) error

	// Statistics over months >= since
	MonthlyTrends(ctx context.Context, since timesheet.YearMonth) ([]MonthlyTrend, error)
	LatestPerUser(ctx context.Context, since timesheet.YearMonth, limit int) ([]Salary, error)
	Summary(ctx context.Context, since timesheet.YearMonth) (Summary, error)
}
