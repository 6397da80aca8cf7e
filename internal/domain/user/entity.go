package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Manages settings, salaries and approvals
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     *string
	Role         Role
	TeamID       *string
	ShiftID      *string
	// Remaining paid annual leave days; approval of annual leave deducts from it.
	AnnualLeaveBalance int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsAdmin checks if user manages the organisation
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanApprove checks if user can approve leave requests
func (u *User) CanApprove() bool {
	return u.IsAdmin()
}

func (u *User) FullName() string {
	if u.LastName == nil || *u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + *u.LastName
}
