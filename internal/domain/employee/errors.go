package employee

import "github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"

var (
	ErrEmployeeNotFound    = apperror.New(apperror.ErrNotFound, "employee not found")
	ErrInvalidDailyRate    = apperror.New(apperror.ErrValidation, "daily rate must not be negative")
	ErrPayslipNotPermitted = apperror.New(apperror.ErrPermission, "employee is not allowed to request payslips")
	ErrNotPayrollEligible  = apperror.New(apperror.ErrPermission, "owners and administrators are not paid through payslips")
)
