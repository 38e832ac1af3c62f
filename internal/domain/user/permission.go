package user

type Permission string

const (
	// Attendance
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceExport  Permission = "attendance.export"

	// Visits
	PermissionVisitCreate  Permission = "visit.create"
	PermissionVisitViewOwn Permission = "visit.view_own"
	PermissionVisitApprove Permission = "visit.approve"
	PermissionVisitExport  Permission = "visit.export"

	// Dashboard
	PermissionStatsView Permission = "stats.view"

	// Offices
	PermissionOfficeManageSchedule Permission = "office.manage_schedule"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceCreate,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceExport,
		PermissionVisitCreate,
		PermissionVisitViewOwn,
		PermissionVisitApprove,
		PermissionVisitExport,
		PermissionStatsView,
		PermissionOfficeManageSchedule,
	},
	RoleSupervisor: {
		// Same as admin, narrowed to one office by Actor.Scope
		PermissionAttendanceCreate,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceExport,
		PermissionVisitCreate,
		PermissionVisitViewOwn,
		PermissionVisitApprove,
		PermissionVisitExport,
		PermissionStatsView,
		PermissionOfficeManageSchedule,
	},
	RoleKaryawan: {
		PermissionAttendanceCreate,
		PermissionAttendanceViewOwn,
		PermissionVisitCreate,
		PermissionVisitViewOwn,
	},
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
