package payroll

import "github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"

var (
	ErrPayslipNotFound        = apperror.New(apperror.ErrNotFound, "payslip not found")
	ErrPayslipNotPending      = apperror.New(apperror.ErrStateConflict, "payslip is not pending")
	ErrPayslipAlreadyReleased = apperror.New(apperror.ErrStateConflict, "payslip already released, cannot modify")
	ErrPayslipAlreadyExists   = apperror.New(apperror.ErrStateConflict, "payslip already exists for this period")
	ErrPayslipNotReleased     = apperror.New(apperror.ErrStateConflict, "payslip has not been released")
	ErrPendingPayslipExists   = apperror.New(apperror.ErrStateConflict, "employee already has a pending payslip")

	ErrRequestNotFound         = apperror.New(apperror.ErrNotFound, "payslip request not found")
	ErrRequestNotPending       = apperror.New(apperror.ErrStateConflict, "payslip request is not pending")
	ErrRequestSuperseded       = apperror.New(apperror.ErrStateConflict, "a later release already covers this request period")
	ErrDuplicatePendingRequest = apperror.New(apperror.ErrStateConflict, "a pending request already covers this period")
	ErrNoNewEarnings           = apperror.New(apperror.ErrStateConflict, "no new commissionable work since the last release")

	ErrInvalidPeriod = apperror.New(apperror.ErrValidation, "invalid payroll period")
	ErrInvalidStatus = apperror.New(apperror.ErrValidation, "invalid status")
)
