package user

import (
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name,omitempty"`
	FullName  string  `json:"full_name"`
	Role      string  `json:"role"`
	TeamID    *string `json:"team_id,omitempty"`
	ShiftID   *string `json:"shift_id,omitempty"`

	AnnualLeaveBalance int `json:"annual_leave_balance"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Role:      string(u.Role),
		TeamID:    u.TeamID,
		ShiftID:   u.ShiftID,

		AnnualLeaveBalance: u.AnnualLeaveBalance,

		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// UserFilter narrows the user list. Empty fields match everything.
type UserFilter struct {
	TeamID *string `json:"team_id,omitempty"`
	Role   *string `json:"role,omitempty"`
}

func (f *UserFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.TeamID != nil && !validator.IsValidUUID(*f.TeamID) {
		errs.Add("team_id", "team_id must be a valid UUID")
	}
	if f.Role != nil && !Role(*f.Role).IsValid() {
		errs.Add("role", "role must be one of: admin, employee")
	}
	return errs.OrNil()
}

// UpdateUserRequest assigns role, team, shift and leave balance. Nil fields
// are left alone; an empty team_id or shift_id clears the assignment.
type UpdateUserRequest struct {
	ID                 string  `json:"-"`
	Role               *string `json:"role,omitempty"`
	TeamID             *string `json:"team_id,omitempty"`
	ShiftID            *string `json:"shift_id,omitempty"`
	AnnualLeaveBalance *int    `json:"annual_leave_balance,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.Role != nil && !Role(*r.Role).IsValid() {
		errs.Add("role", "role must be one of: admin, employee")
	}
	if r.TeamID != nil && *r.TeamID != "" && !validator.IsValidUUID(*r.TeamID) {
		errs.Add("team_id", "team_id must be a valid UUID or empty")
	}
	if r.ShiftID != nil && *r.ShiftID != "" && !validator.IsValidUUID(*r.ShiftID) {
		errs.Add("shift_id", "shift_id must be a valid UUID or empty")
	}
	if r.AnnualLeaveBalance != nil && (*r.AnnualLeaveBalance < 0 || *r.AnnualLeaveBalance > 366) {
		errs.Add("annual_leave_balance", "annual_leave_balance must be between 0 and 366")
	}

	if r.Role == nil && r.TeamID == nil && r.ShiftID == nil && r.AnnualLeaveBalance == nil {
		errs.Add("body", "at least one field must be provided")
	}
	return errs.OrNil()
}
