package attendance

import "errors"

var (
	// Device could not provide a position; distinct from being outside the fence.
	ErrLocationUnavailable = errors.New("device location is unavailable")
	ErrOutsideGeofence     = errors.New("current location is outside the office radius")

	ErrAlreadyCheckedIn    = errors.New("already checked in; check out first")
	ErrNotCheckedIn        = errors.New("no open check-in to check out from")
	ErrAttendanceNotFound  = errors.New("attendance not found")
	ErrProofNotFound       = errors.New("attendance has no proof photo")
	ErrAttendanceForbidden = errors.New("attendance belongs to another user")
	ErrInvalidDateRange    = errors.New("end_date must not be before start_date")
	ErrDateRangeTooLarge   = errors.New("date range must not exceed 366 days")
	ErrUserClaimMissing    = errors.New("user_id claim is missing or invalid")
	ErrRateLimitExceeded   = errors.New("too many attendance requests")
)
