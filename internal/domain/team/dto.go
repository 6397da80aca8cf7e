package team

import (
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/validator"
)

type CreateTeamRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	LeaderID    *string `json:"leader_id,omitempty"` // empty clears the leader
}

func (r *CreateTeamRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}
	if r.Description != nil && len(*r.Description) > 1000 {
		errs.Add("description", "description must not exceed 1000 characters")
	}
	if r.LeaderID != nil && *r.LeaderID != "" && !validator.IsValidUUID(*r.LeaderID) {
		errs.Add("leader_id", "leader_id must be a valid UUID or empty")
	}

	return errs.OrNil()
}

// Team returns the entity described by the request. Call Validate first.
func (r *CreateTeamRequest) Team() Team {
	t := Team{Name: r.Name}
	if r.Description != nil && *r.Description != "" {
		t.Description = r.Description
	}
	if r.LeaderID != nil && *r.LeaderID != "" {
		t.LeaderID = r.LeaderID
	}
	return t
}

type UpdateTeamRequest struct {
	ID string `json:"-"`
	CreateTeamRequest
}

func (r *UpdateTeamRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if err := r.CreateTeamRequest.Validate(); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		}
	}
	return errs.OrNil()
}

type TeamResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	LeaderID    *string             `json:"leader_id,omitempty"`
	LeaderName  *string             `json:"leader_name,omitempty"`
	MemberCount int                 `json:"member_count"`
	Members     []user.UserResponse `json:"members,omitempty"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

func NewTeamResponse(t Team) TeamResponse {
	return TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		LeaderID:    t.LeaderID,
		LeaderName:  t.LeaderName,
		MemberCount: t.MemberCount,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}
