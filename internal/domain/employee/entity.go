package employee

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
)

type Employee struct {
	ID                string
	UserID            *string
	FullName          string
	Roles             []user.Role
	DailyRate         int64
	SalaryBalance     int64
	CanRequestPayslip bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsPayrollEligible reports whether the employee is paid through payslips.
// Owners and administrators are not.
func (e *Employee) IsPayrollEligible() bool {
	for _, r := range e.Roles {
		if r.IsAdministrative() {
			return false
		}
	}
	return true
}

// ApplyBalanceDelta adjusts the running balance, flooring decreases at zero.
// It returns the new balance.
func (e *Employee) ApplyBalanceDelta(delta int64) int64 {
	e.SalaryBalance += delta
	if e.SalaryBalance < 0 {
		e.SalaryBalance = 0
	}
	return e.SalaryBalance
}

// ResetBalance zeroes the running balance once its earnings are paid out.
func (e *Employee) ResetBalance() {
	e.SalaryBalance = 0
}
