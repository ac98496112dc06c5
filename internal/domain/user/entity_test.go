package user

import (
	"testing"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

func TestActorPermissions(t *testing.T) {
	empID := "emp-1"
	staff := Actor{UserID: "u-1", EmployeeID: &empID, Roles: []Role{RoleEmployee}}
	admin := Actor{UserID: "u-2", Roles: []Role{RoleAdmin}}

	assert.True(t, staff.Can(PermissionPayslipRequest))
	assert.False(t, staff.Can(PermissionPayslipApprove))
	assert.False(t, staff.IsAdministrative())
	assert.True(t, staff.CanView("emp-1", PermissionPayrollViewAll))
	assert.False(t, staff.CanView("emp-2", PermissionPayrollViewAll))

	assert.True(t, admin.IsAdministrative())
	assert.True(t, admin.CanView("emp-2", PermissionPayrollViewAll))
	assert.False(t, admin.Can(PermissionPayslipRequest))

	err := staff.Require(PermissionPayslipRelease)
	assert.ErrorIs(t, err, ErrInsufficientPermissions)
	assert.ErrorIs(t, err, apperror.ErrPermission)
	assert.NoError(t, admin.Require(PermissionPayslipRelease))
}

func TestRoleValidity(t *testing.T) {
	assert.True(t, RoleManager.IsValid())
	assert.False(t, Role("pending").IsValid())
	assert.True(t, RoleOwner.IsAdministrative())
	assert.False(t, RoleManager.IsAdministrative())
}
