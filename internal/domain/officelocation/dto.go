package officelocation

import (
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/validator"
)

type UpsertOfficeLocationRequest struct {
	TeamID       string   `json:"-"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	RadiusMeters *float64 `json:"radius_meters"`
}

func (r *UpsertOfficeLocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.TeamID) {
		errs.Add("team_id", "team_id must be a valid UUID")
	}
	if r.Latitude == nil {
		errs.Add("latitude", "latitude is required")
	} else if !validator.IsValidLatitude(*r.Latitude) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if r.Longitude == nil {
		errs.Add("longitude", "longitude is required")
	} else if !validator.IsValidLongitude(*r.Longitude) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}
	// Omitted radius falls back to the configured default.
	if r.RadiusMeters != nil && !validator.IsPositive(*r.RadiusMeters) {
		errs.Add("radius_meters", "radius_meters must be greater than 0")
	}

	return errs.OrNil()
}

type OfficeLocationResponse struct {
	TeamID       string  `json:"team_id"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	UpdatedBy    *string `json:"updated_by,omitempty"`
	UpdatedAt    string  `json:"updated_at"`
}

func NewOfficeLocationResponse(o OfficeLocation) OfficeLocationResponse {
	return OfficeLocationResponse{
		TeamID:       o.TeamID,
		Latitude:     o.Latitude,
		Longitude:    o.Longitude,
		RadiusMeters: o.RadiusMeters,
		UpdatedBy:    o.UpdatedBy,
		UpdatedAt:    o.UpdatedAt.Format(time.RFC3339),
	}
}

// GeofenceCheckRequest is a dry run of the check-in location test.
type GeofenceCheckRequest struct {
	TeamID    string   `json:"-"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *GeofenceCheckRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.TeamID) {
		errs.Add("team_id", "team_id must be a valid UUID")
	}
	if r.Latitude == nil || !validator.IsValidLatitude(*r.Latitude) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if r.Longitude == nil || !validator.IsValidLongitude(*r.Longitude) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}

	return errs.OrNil()
}

type GeofenceCheckResponse struct {
	TeamID         string  `json:"team_id"`
	Inside         bool    `json:"inside"`
	DistanceMeters float64 `json:"distance_meters"`
	RadiusMeters   float64 `json:"radius_meters"`
}
