package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	ExportSalaries(w http.ResponseWriter, r *http.Request)
	ExportAttendance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// ExportSalaries implements ReportHandler. Routed as /salaries.{format}.
func (h *reportHandlerImpl) ExportSalaries(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	export, err := h.reportService.ExportSalaries(r.Context(), format)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, export.Filename, export.ContentType, export.Body)
}

// ExportAttendance implements ReportHandler. Routed as /attendance.{format}.
func (h *reportHandlerImpl) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	export, err := h.reportService.ExportAttendance(r.Context(), format, report.AttendanceExportQuery{Limit: queryInt(r, "limit")})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, export.Filename, export.ContentType, export.Body)
}
