package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/commission"
)

// PayslipStatus enum
type PayslipStatus string

const (
	PayslipStatusPending  PayslipStatus = "PENDING"
	PayslipStatusReleased PayslipStatus = "RELEASED"
)

func (s PayslipStatus) IsValid() bool {
	return s == PayslipStatusPending || s == PayslipStatusReleased
}

// Payslip - Computed pay for one employee over one period
type Payslip struct {
	ID               string
	EmployeeID       string
	RequestID        *string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	PresentDays      int
	DailyRate        int64
	BaseSalary       int64
	TotalCommissions int64
	TotalBonuses     int64
	TotalDeductions  int64
	NetPay           int64
	CommissionLines  []commission.Line
	Notes            *string
	Status           PayslipStatus
	ReleasedDate     *time.Time
	ReleasedBy       *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	EmployeeName *string
}

// ComputeNetPay sets NetPay from the component totals.
func (p *Payslip) ComputeNetPay() {
	p.NetPay = p.BaseSalary + p.TotalCommissions + p.TotalBonuses - p.TotalDeductions
}

// Release moves a pending payslip to RELEASED. It is the only transition.
func (p *Payslip) Release(at time.Time, by string) error {
	if p.Status != PayslipStatusPending {
		return ErrPayslipNotPending
	}
	p.Status = PayslipStatusReleased
	p.ReleasedDate = &at
	p.ReleasedBy = &by
	p.UpdatedAt = at
	return nil
}

// Adjust changes the manual components of a pending payslip.
func (p *Payslip) Adjust(bonuses, deductions *int64, notes *string) error {
	if p.Status != PayslipStatusPending {
		return ErrPayslipAlreadyReleased
	}
	if bonuses != nil {
		p.TotalBonuses = *bonuses
	}
	if deductions != nil {
		p.TotalDeductions = *deductions
	}
	if notes != nil {
		p.Notes = notes
	}
	p.ComputeNetPay()
	return nil
}
