package attendance

import (
	"io"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// CheckRequest is the body of check-in and check-out. LocationAvailable is
// false (or the coordinates are absent) when the device could not obtain a
// position.
type CheckRequest struct {
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	LocationAvailable *bool    `json:"location_available,omitempty"`
	Location          *string  `json:"location,omitempty"`
	Notes             *string  `json:"notes,omitempty"`

	Photo         io.Reader `json:"-"`
	PhotoFilename string    `json:"-"`
}

// HasLocation reports whether the device supplied a usable position.
func (r *CheckRequest) HasLocation() bool {
	if r.LocationAvailable != nil && !*r.LocationAvailable {
		return false
	}
	return r.Latitude != nil && r.Longitude != nil
}

func (r *CheckRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}
	if r.Location != nil && len(*r.Location) > 255 {
		errs.Add("location", "location must not exceed 255 characters")
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs.Add("notes", "notes must not exceed 1000 characters")
	}
	if r.Photo != nil {
		name := strings.ToLower(r.PhotoFilename)
		if !strings.HasSuffix(name, ".jpg") && !strings.HasSuffix(name, ".jpeg") && !strings.HasSuffix(name, ".png") {
			errs.Add("photo", "invalid file type: only jpg, jpeg, png allowed")
		}
	}

	return errs.OrNil()
}

type AttendanceResponse struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	UserName  *string  `json:"user_name,omitempty"`
	UserEmail *string  `json:"user_email,omitempty"`
	Timestamp string   `json:"timestamp"`
	Date      string   `json:"date"`
	Type      string   `json:"type"`
	Location  *string  `json:"location,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	HasProof  bool     `json:"has_proof"`
	Notes     *string  `json:"notes,omitempty"`
	CreatedAt string   `json:"created_at"`

	// Set on check-in/out when an office location is configured
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		UserName:  a.UserName,
		UserEmail: a.UserEmail,
		Timestamp: a.Timestamp.Format(time.RFC3339),
		Date:      a.Timestamp.Format(timesheet.DateLayout),
		Type:      string(a.Type),
		Location:  a.Location,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
		HasProof:  a.ProofPath != nil && *a.ProofPath != "",
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

type AttendanceFilter struct {
	UserID    *string `json:"user_id,omitempty"`
	Type      *string `json:"type,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // timestamp, type
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
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

	if f.Type != nil && !timesheet.EventType(*f.Type).IsValid() {
		errs.Add("type", "type must be one of: check_in, check_out")
	}

	var start, end time.Time
	if f.StartDate != nil && *f.StartDate != "" {
		var ok bool
		if start, ok = validator.IsValidDate(*f.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		var ok bool
		if end, ok = validator.IsValidDate(*f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs.Add("end_date", ErrInvalidDateRange.Error())
	}

	if f.SortBy != "" {
		if !validator.IsInSlice(f.SortBy, []string{"timestamp", "type"}) {
			errs.Add("sort_by", "sort_by must be one of: timestamp, type")
		}
	} else {
		f.SortBy = "timestamp"
	}

	if f.SortOrder != "" {
		f.SortOrder = strings.ToLower(f.SortOrder)
		if !validator.IsInSlice(f.SortOrder, []string{"asc", "desc"}) {
			errs.Add("sort_order", "sort_order must be one of: asc, desc")
		}
	} else {
		f.SortOrder = "desc"
	}

	return errs.OrNil()
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type StatusResponse struct {
	Date             string               `json:"date"`
	Events           []AttendanceResponse `json:"events"`
	CanCheckIn       bool                 `json:"can_check_in"`
	CanCheckOut      bool                 `json:"can_check_out"`
	OpenCheckInAt    *time.Time           `json:"open_check_in_at,omitempty"`
	HoursToday       float64              `json:"hours_today"`
	GeofenceEnforced bool                 `json:"geofence_enforced"`
	RadiusMeters     *float64             `json:"radius_meters,omitempty"`
}

// DailyHoursQuery selects an inclusive range of calendar days.
type DailyHoursQuery struct {
	UserID    string `json:"-"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (q *DailyHoursQuery) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(q.StartDate)
	if !okStart {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, okEnd := validator.IsValidDate(q.EndDate)
	if !okEnd {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if okStart && okEnd {
		if end.Before(start) {
			errs.Add("end_date", ErrInvalidDateRange.Error())
		} else if end.Sub(start) > 366*24*time.Hour {
			errs.Add("end_date", ErrDateRangeTooLarge.Error())
		}
	}

	return errs.OrNil()
}

type DayHours struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

type DailyHoursResponse struct {
	UserID     string              `json:"user_id"`
	StartDate  string              `json:"start_date"`
	EndDate    string              `json:"end_date"`
	Days       []DayHours          `json:"days"`
	TotalHours float64             `json:"total_hours"`
	Anomalies  []timesheet.Anomaly `json:"anomalies"`
}

type ProofURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}
