package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/officelocation"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/handler/http/response"
)

type OfficeLocationHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Check(w http.ResponseWriter, r *http.Request)
}

type officeLocationHandlerImpl struct {
	officeLocationService officelocation.OfficeLocationService
}

func NewOfficeLocationHandler(officeLocationService officelocation.OfficeLocationService) OfficeLocationHandler {
	return &officeLocationHandlerImpl{officeLocationService: officeLocationService}
}

// Get implements OfficeLocationHandler.
func (h *officeLocationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathUUID(w, r, "team_id", "Team ID")
	if !ok {
		return
	}

	loc, err := h.officeLocationService.Get(r.Context(), teamID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, loc)
}

// Upsert implements OfficeLocationHandler.
func (h *officeLocationHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathUUID(w, r, "team_id", "Team ID")
	if !ok {
		return
	}

	var req officelocation.UpsertOfficeLocationRequest
	if !decodeJSON(w, r, &req, "UpsertOfficeLocation") {
		return
	}
	req.TeamID = teamID

	saved, err := h.officeLocationService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Office location saved successfully", saved)
}

// List implements OfficeLocationHandler.
func (h *officeLocationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.officeLocationService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, locations)
}

// Check implements OfficeLocationHandler.
func (h *officeLocationHandlerImpl) Check(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathUUID(w, r, "team_id", "Team ID")
	if !ok {
		return
	}

	var req officelocation.GeofenceCheckRequest
	if !decodeJSON(w, r, &req, "GeofenceCheck") {
		return
	}
	req.TeamID = teamID

	result, err := h.officeLocationService.Check(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
