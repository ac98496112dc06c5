package user

import "github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"

var (
	ErrInsufficientPermissions = apperror.New(apperror.ErrPermission, "insufficient permissions")
	ErrAdminPrivilegeRequired  = apperror.New(apperror.ErrPermission, "admin privilege required")
	ErrNotOwnRecord            = apperror.New(apperror.ErrPermission, "cannot access another employee's records")
)
