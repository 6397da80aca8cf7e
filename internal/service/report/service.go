package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
	"github.com/xuri/excelize/v2"
)

var salaryHeaders = []string{
	"Employee Name", "Email", "Month", "Base Salary", "Bonus", "Deductions",
	"Total Salary", "Hours Worked", "Notes", "Created At",
}

var attendanceHeaders = []string{
	"Employee Name", "Email", "Type", "Date", "Time", "Location", "Notes",
}

type ReportServiceImpl struct {
	salaryRepo     salary.SalaryRepository
	attendanceRepo attendance.AttendanceRepository

	loc *time.Location
	now func() time.Time
}

func NewReportService(salaryRepo salary.SalaryRepository, attendanceRepo attendance.AttendanceRepository, loc *time.Location) report.ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportServiceImpl{
		salaryRepo:     salaryRepo,
		attendanceRepo: attendanceRepo,
		loc:            loc,
		now:            time.Now,
	}
}

// ExportSalaries implements report.ReportService.
func (s *ReportServiceImpl) ExportSalaries(ctx context.Context, format report.Format) (report.Export, error) {
	rows, err := s.salaryRepo.ListAll(ctx)
	if err != nil {
		return report.Export{}, fmt.Errorf("failed to list salaries: %w", err)
	}

	records := make([][]any, 0, len(rows))
	for _, row := range rows {
		records = append(records, []any{
			valueOr(row.UserName, "Unknown"),
			valueOr(row.UserEmail, ""),
			row.Month.String(),
			row.BaseSalary.InexactFloat64(),
			row.Bonus.InexactFloat64(),
			row.Deductions.InexactFloat64(),
			row.TotalSalary.InexactFloat64(),
			row.HoursWorked,
			valueOr(row.Notes, ""),
			row.CreatedAt.In(s.loc).Format("2006-01-02"),
		})
	}

	return s.render(format, "salaries", "Salaries", salaryHeaders, records)
}

// ExportAttendance implements report.ReportService. Rows are newest first.
func (s *ReportServiceImpl) ExportAttendance(ctx context.Context, format report.Format, query report.AttendanceExportQuery) (report.Export, error) {
	if err := query.Validate(); err != nil {
		return report.Export{}, err
	}

	rows, err := s.attendanceRepo.ListRecent(ctx, query.Limit)
	if err != nil {
		return report.Export{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	records := make([][]any, 0, len(rows))
	for _, row := range rows {
		ts := row.Timestamp.In(s.loc)
		records = append(records, []any{
			valueOr(row.UserName, "Unknown"),
			valueOr(row.UserEmail, ""),
			typeLabel(row.Type),
			ts.Format("2006-01-02"),
			ts.Format("15:04:05"),
			valueOr(row.Location, ""),
			valueOr(row.Notes, ""),
		})
	}

	return s.render(format, "attendance", "Attendance", attendanceHeaders, records)
}

func (s *ReportServiceImpl) render(format report.Format, prefix, sheet string, headers []string, records [][]any) (report.Export, error) {
	var (
		body *bytes.Buffer
		err  error
	)
	switch format {
	case report.FormatXLSX:
		body, err = writeXLSX(sheet, headers, records)
	case report.FormatCSV:
		body, err = writeCSV(headers, records)
	default:
		return report.Export{}, fmt.Errorf("%w: %q", report.ErrUnsupportedFormat, format)
	}
	if err != nil {
		slog.Error("Failed to render report", "report", prefix, "format", format, "error", err)
		return report.Export{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	slog.Info("Report exported", "report", prefix, "format", format, "rows", len(records))
	return report.NewExport(prefix, format, s.now().In(s.loc), body), nil
}

func writeXLSX(sheet string, headers []string, records [][]any) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return nil, err
	}

	for i, record := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeCSV(headers []string, records [][]any) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	line := make([]string, len(headers))
	for _, record := range records {
		for i, v := range record {
			line[i] = csvValue(v)
		}
		if err := w.Write(line); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf, w.Error()
}

func csvValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', 2, 64)
	default:
		return fmt.Sprint(t)
	}
}

func typeLabel(t timesheet.EventType) string {
	switch t {
	case timesheet.CheckIn:
		return "Check In"
	case timesheet.CheckOut:
		return "Check Out"
	}
	return string(t)
}

func valueOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
