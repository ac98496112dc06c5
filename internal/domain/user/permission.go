package user

type Permission string

const (
	// Attendance
	PermissionAttendanceMark    Permission = "attendance.mark"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Payslip workflow
	PermissionPayslipRequest Permission = "payslip.request"
	PermissionPayslipApprove Permission = "payslip.approve"
	PermissionPayslipRelease Permission = "payslip.release"

	// Payroll reporting
	PermissionPayrollViewAll Permission = "payroll.view_all"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionAttendanceMark,
		PermissionAttendanceViewAll,
		PermissionPayslipApprove,
		PermissionPayslipRelease,
		PermissionPayrollViewAll,
	},
	RoleAdmin: {
		PermissionAttendanceMark,
		PermissionAttendanceViewAll,
		PermissionPayslipApprove,
		PermissionPayslipRelease,
		PermissionPayrollViewAll,
	},
	RoleManager: {
		// Manager runs the floor but is paid like staff
		PermissionAttendanceMark,
		PermissionAttendanceViewAll,
		PermissionPayslipRequest,
	},
	RoleEmployee: {
		PermissionPayslipRequest,
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
