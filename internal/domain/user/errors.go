package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrInvalidRole             = errors.New("invalid role")
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrTeamRequired            = errors.New("user is not assigned to a team")
	ErrTeamNotFound            = errors.New("team not found")
	ErrShiftNotFound           = errors.New("shift not found")
	ErrCannotChangeOwnRole     = errors.New("cannot change your own role")
	ErrInsufficientLeave       = errors.New("insufficient annual leave balance")
)
