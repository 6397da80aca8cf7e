package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/handler/http/response"
)

// maxUploadBytes bounds a multipart check-in including its photo.
const maxUploadBytes = 10 << 20

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetMyDailyHours(w http.ResponseWriter, r *http.Request)
	GetProofURL(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// parseCheckRequest accepts either a JSON body or a multipart form with a
// JSON 'data' field and an optional 'photo' file. The returned file, if any,
// must be closed by the caller.
func parseCheckRequest(w http.ResponseWriter, r *http.Request) (attendance.CheckRequest, multipart.File, bool) {
	var req attendance.CheckRequest

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return req, nil, decodeJSON(w, r, &req, "Attendance")
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return req, nil, false
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return req, nil, false
	}
	if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return req, nil, false
	}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return req, nil, true
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return req, nil, false
	}

	req.Photo = file
	req.PhotoFilename = fileHeader.Filename
	return req, file, true
}

func (h *attendanceHandlerImpl) record(w http.ResponseWriter, r *http.Request, checkIn bool) {
	req, file, ok := parseCheckRequest(w, r)
	if !ok {
		return
	}
	if file != nil {
		defer file.Close()
	}

	var (
		result attendance.AttendanceResponse
		err    error
	)
	if checkIn {
		result, err = h.attendanceService.CheckIn(r.Context(), req)
	} else {
		result, err = h.attendanceService.CheckOut(r.Context(), req)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if checkIn {
		response.Created(w, "Check in successful", result)
		return
	}
	response.Created(w, "Check out successful", result)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, true)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, false)
}

// Status implements AttendanceHandler.
func (h *attendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.attendanceService.GetStatus(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, status)
}

func attendanceFilterFrom(r *http.Request) attendance.AttendanceFilter {
	return attendance.AttendanceFilter{
		UserID:    queryString(r, "user_id"),
		Type:      queryString(r, "type"),
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
		Page:      queryInt(r, "page"),
		Limit:     queryInt(r, "limit"),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetMyAttendance(r.Context(), attendanceFilterFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ListAttendance(r.Context(), attendanceFilterFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetMyDailyHours implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyDailyHours(w http.ResponseWriter, r *http.Request) {
	query := attendance.DailyHoursQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	result, err := h.attendanceService.GetMyDailyHours(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetProofURL implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetProofURL(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "Attendance ID")
	if !ok {
		return
	}

	result, err := h.attendanceService.GetProofURL(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
