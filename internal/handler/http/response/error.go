package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/officelocation"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/team"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenMissing):
		Unauthorized(w, "Refresh token is required")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, jwt.ErrClaimsMissing), errors.Is(err, attendance.ErrUserClaimMissing):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired), errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrCannotChangeOwnRole):
		Forbidden(w, "You cannot change your own role")
	case errors.Is(err, user.ErrShiftNotFound):
		NotFound(w, "Shift not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrLocationUnavailable):
		ErrorWithCode(w, http.StatusBadRequest, "LOCATION_UNAVAILABLE", "Location is unavailable. Enable location access and try again")
	case errors.Is(err, attendance.ErrOutsideGeofence):
		ErrorWithCode(w, http.StatusForbidden, "OUTSIDE_GEOFENCE", "You are outside the office radius")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in. Check out first")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "No open check-in to check out from")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance not found")
	case errors.Is(err, attendance.ErrProofNotFound):
		NotFound(w, "Attendance has no proof photo")
	case errors.Is(err, attendance.ErrAttendanceForbidden):
		Forbidden(w, "Attendance belongs to another user")
	case errors.Is(err, attendance.ErrInvalidDateRange), errors.Is(err, attendance.ErrDateRangeTooLarge):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrRateLimitExceeded):
		TooManyRequests(w, "Too many attendance requests, try again later")
	case errors.Is(err, geo.ErrInvalidCoordinate), errors.Is(err, geo.ErrInvalidRadius):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, file.ErrUnsupportedImage), errors.Is(err, file.ErrImageTooLarge):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, timesheet.ErrInvalidTimeOfDay), errors.Is(err, timesheet.ErrInvalidMonth), errors.Is(err, timesheet.ErrInvalidRange):
		BadRequest(w, err.Error(), nil)

	// Settings
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftNameExists):
		Conflict(w, "Shift name already exists")
	case errors.Is(err, officelocation.ErrOfficeLocationNotFound):
		NotFound(w, "Office location not configured for team")
	case errors.Is(err, officelocation.ErrTeamNotFound), errors.Is(err, team.ErrTeamNotFound), errors.Is(err, user.ErrTeamNotFound):
		NotFound(w, "Team not found")
	case errors.Is(err, team.ErrTeamNameExists):
		Conflict(w, "Team name already exists")
	case errors.Is(err, team.ErrLeaderNotFound):
		NotFound(w, "Team leader not found")

	// Salary domain errors
	case errors.Is(err, salary.ErrSalaryNotFound):
		NotFound(w, "Salary not found")
	case errors.Is(err, salary.ErrSalaryForbidden):
		Forbidden(w, "Salary belongs to another user")
	case errors.Is(err, salary.ErrUserNotFound):
		NotFound(w, "User not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrCannotProcessOwnRequest):
		Forbidden(w, "You cannot approve or reject your own request")
	case errors.Is(err, leave.ErrInsufficientLeaveBalance), errors.Is(err, user.ErrInsufficientLeave):
		Conflict(w, "Insufficient annual leave balance")

	// Reports
	case errors.Is(err, report.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
