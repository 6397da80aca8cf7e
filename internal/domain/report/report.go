package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/validator"
)

var (
	ErrUnsupportedFormat      = errors.New("unsupported export format")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatXLSX, FormatCSV:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Export is a rendered report ready to be streamed to the client.
type Export struct {
	Filename    string
	ContentType string
	Body        *bytes.Buffer
}

func exportFilename(prefix string, format Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("2006-01-02"), format)
}

// NewExport names the file after prefix and the generation date.
func NewExport(prefix string, format Format, now time.Time, body *bytes.Buffer) Export {
	return Export{
		Filename:    exportFilename(prefix, format, now),
		ContentType: format.ContentType(),
		Body:        body,
	}
}

type AttendanceExportQuery struct {
	Limit int `json:"limit"` // default 1000, newest first
}

func (q *AttendanceExportQuery) Validate() error {
	var errs validator.ValidationErrors
	if q.Limit == 0 {
		q.Limit = 1000
	}
	if q.Limit < 1 || q.Limit > 10000 {
		errs.Add("limit", "limit must be between 1 and 10000")
	}
	return errs.OrNil()
}

type ReportService interface {
	ExportSalaries(ctx context.Context, format Format) (Export, error)
	ExportAttendance(ctx context.Context, format Format, query AttendanceExportQuery) (Export, error)
}
