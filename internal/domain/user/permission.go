package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"

	// Attendance
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Organisation
	PermissionUserManage Permission = "user.manage"
	PermissionTeamManage Permission = "team.manage"

	// Settings
	PermissionShiftManage          Permission = "shift.manage"
	PermissionOfficeLocationManage Permission = "office_location.manage"

	// Salaries
	PermissionSalaryViewOwn Permission = "salary.view_own"
	PermissionSalaryManage  Permission = "salary.manage"

	// Leave
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"

	// Reports
	PermissionReportsExport Permission = "reports.export"
)

var employeePermissions = []Permission{
	PermissionViewOwnProfile,
	PermissionAttendanceCreate,
	PermissionAttendanceViewOwn,
	PermissionSalaryViewOwn,
	PermissionLeaveCreate,
	PermissionLeaveViewOwn,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: append(append([]Permission{}, employeePermissions...),
		PermissionAttendanceViewAll,
		PermissionUserManage,
		PermissionTeamManage,
		PermissionShiftManage,
		PermissionOfficeLocationManage,
		PermissionSalaryManage,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionReportsExport,
	),
	RoleEmployee: employeePermissions,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
