package salary

import (
	"context"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
)

type SalaryService interface {
	// Upsert computes hours_worked from attendance and stores the row.
	Upsert(ctx context.Context, req UpsertSalaryRequest) (SalaryResponse, error)
	Get(ctx context.Context, id string) (SalaryResponse, error)
	List(ctx context.Context, filter SalaryFilter) (ListSalaryResponse, error)
	ListMy(ctx context.Context, filter SalaryFilter) (ListSalaryResponse, error)
	Delete(ctx context.Context, id string) error

	PreviewHours(ctx context.Context, query PreviewHoursQuery) (timesheet.MonthlyReport, error)
	Statistics(ctx context.Context, query StatisticsQuery) (StatisticsResponse, error)
}
