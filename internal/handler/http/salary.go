package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/handler/http/response"
)

type SalaryHandler interface {
	Upsert(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMy(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	PreviewHours(w http.ResponseWriter, r *http.Request)
	Statistics(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.SalaryService
}

func NewSalaryHandler(salaryService salary.SalaryService) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService}
}

func salaryFilterFrom(r *http.Request) salary.SalaryFilter {
	return salary.SalaryFilter{
		UserID: queryString(r, "user_id"),
		Month:  queryString(r, "month"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}
}

// Upsert implements SalaryHandler.
func (h *salaryHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req salary.UpsertSalaryRequest
	if !decodeJSON(w, r, &req, "UpsertSalary") {
		return
	}

	saved, err := h.salaryService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary saved successfully", saved)
}

// List implements SalaryHandler.
func (h *salaryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.List(r.Context(), salaryFilterFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListMy implements SalaryHandler.
func (h *salaryHandlerImpl) ListMy(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.ListMy(r.Context(), salaryFilterFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Get implements SalaryHandler.
func (h *salaryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "Salary ID")
	if !ok {
		return
	}

	result, err := h.salaryService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Delete implements SalaryHandler.
func (h *salaryHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "Salary ID")
	if !ok {
		return
	}

	if err := h.salaryService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary deleted successfully", nil)
}

// PreviewHours implements SalaryHandler.
func (h *salaryHandlerImpl) PreviewHours(w http.ResponseWriter, r *http.Request) {
	query := salary.PreviewHoursQuery{
		UserID: r.URL.Query().Get("user_id"),
		Month:  r.URL.Query().Get("month"),
	}

	result, err := h.salaryService.PreviewHours(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Statistics implements SalaryHandler.
func (h *salaryHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.Statistics(r.Context(), salary.StatisticsQuery{Months: queryInt(r, "months")})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
