package shift

import (
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/validator"
)

type CreateShiftRequest struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"` // HH:MM or HH:MM:SS
	EndTime   string `json:"end_time"`

	start timesheet.TimeOfDay
	end   timesheet.TimeOfDay
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}

	var err error
	if r.start, err = timesheet.ParseTimeOfDay(r.StartTime); err != nil {
		errs.Add("start_time", "start_time must be in HH:MM or HH:MM:SS format")
	}
	if r.end, err = timesheet.ParseTimeOfDay(r.EndTime); err != nil {
		errs.Add("end_time", "end_time must be in HH:MM or HH:MM:SS format")
	}

	return errs.OrNil()
}

// Shift returns the validated entity. Call Validate first.
func (r *CreateShiftRequest) Shift() Shift {
	return Shift{Name: r.Name, StartTime: r.start, EndTime: r.end}
}

type UpdateShiftRequest struct {
	ID string `json:"-"`
	CreateShiftRequest
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if err := r.CreateShiftRequest.Validate(); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		}
	}
	return errs.OrNil()
}

type ShiftResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	DurationHours   float64 `json:"duration_hours"`
	CrossesMidnight bool    `json:"crosses_midnight"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func NewShiftResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		ID:              s.ID,
		Name:            s.Name,
		StartTime:       s.StartTime.String(),
		EndTime:         s.EndTime.String(),
		DurationHours:   s.DurationHours(),
		CrossesMidnight: s.CrossesMidnight(),
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       s.UpdatedAt.Format(time.RFC3339),
	}
}

// CalendarQuery selects the days rendered into a shift's ICS feed.
type CalendarQuery struct {
	ShiftID string `json:"-"`
	From    string `json:"from"` // YYYY-MM-DD, defaults to today
	Days    int    `json:"days"` // defaults to 30, at most 366
}

func (q *CalendarQuery) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(q.ShiftID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if q.From != "" {
		if _, ok := validator.IsValidDate(q.From); !ok {
			errs.Add("from", "from must be in YYYY-MM-DD format")
		}
	}
	if q.Days == 0 {
		q.Days = 30
	}
	if q.Days < 0 || q.Days > 366 {
		errs.Add("days", "days must be between 1 and 366")
	}
	return errs.OrNil()
}
