package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ========== PERIOD DTOs ==========

type ResolvePeriodRequest struct {
	EmployeeID string
	EndDate    *string
}

func (r *ResolvePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

type PeriodResponse struct {
	EmployeeID  string `json:"employee_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Days        int    `json:"days"`
}

// ========== REQUEST DTOs ==========

type RejectRequest struct {
	RequestID string `json:"-"`
	Reason    string `json:"reason"`
}

func (r *RejectRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs.Add("request_id", "request_id is required")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

type RequestFilter struct {
	Status     *string
	EmployeeID *string
}

func (f *RequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !RequestStatus(*f.Status).IsValid() {
		errs.Add("status", "status must be one of PENDING, PROCESSED, REJECTED, FAILED")
	}

	return errs.Err()
}

type PayslipRequestResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	RequestedAt  string  `json:"requested_at"`
	PeriodStart  string  `json:"period_start"`
	PeriodEnd    string  `json:"period_end"`
	Status       string  `json:"status"`
	Notes        *string `json:"notes,omitempty"`
	PayslipID    *string `json:"payslip_id,omitempty"`
	ProcessedBy  *string `json:"processed_by,omitempty"`
	ProcessedAt  *string `json:"processed_at,omitempty"`
}

func ToRequestResponse(r PayslipRequest) PayslipRequestResponse {
	return PayslipRequestResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		RequestedAt:  r.RequestedAt.Format(time.RFC3339),
		PeriodStart:  r.PeriodStart.Format("2006-01-02"),
		PeriodEnd:    r.PeriodEnd.Format("2006-01-02"),
		Status:       string(r.Status),
		Notes:        r.Notes,
		PayslipID:    r.PayslipID,
		ProcessedBy:  r.ProcessedBy,
		ProcessedAt:  formatTime(r.ProcessedAt),
	}
}

// ========== PAYSLIP DTOs ==========

type AdjustPayslipRequest struct {
	ID              string  `json:"-"`
	TotalBonuses    *int64  `json:"total_bonuses,omitempty"`
	TotalDeductions *int64  `json:"total_deductions,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

func (r *AdjustPayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.TotalBonuses == nil && r.TotalDeductions == nil && r.Notes == nil {
		errs.Add("body", "at least one of total_bonuses, total_deductions or notes is required")
	}
	if r.TotalBonuses != nil && *r.TotalBonuses < 0 {
		errs.Add("total_bonuses", "must be non-negative")
	}
	if r.TotalDeductions != nil && *r.TotalDeductions < 0 {
		errs.Add("total_deductions", "must be non-negative")
	}

	return errs.Err()
}

type PayslipFilter struct {
	Status     *string
	EmployeeID *string
	Page       int
	Limit      int
}

func (f *PayslipFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !PayslipStatus(*f.Status).IsValid() {
		errs.Add("status", "status must be PENDING or RELEASED")
	}
	if f.Page < 0 {
		errs.Add("page", "page must be positive")
	}
	if f.Limit < 0 || f.Limit > MaxPageLimit {
		errs.Add("limit", "limit must be between 1 and 100")
	}

	return errs.Err()
}

// Normalize applies paging defaults.
func (f *PayslipFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
}

func (f PayslipFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type PayslipResponse struct {
	ID               string            `json:"id"`
	EmployeeID       string            `json:"employee_id"`
	EmployeeName     *string           `json:"employee_name,omitempty"`
	RequestID        *string           `json:"request_id,omitempty"`
	PeriodStart      string            `json:"period_start"`
	PeriodEnd        string            `json:"period_end"`
	PresentDays      int               `json:"present_days"`
	DailyRate        int64             `json:"daily_rate"`
	BaseSalary       int64             `json:"base_salary"`
	TotalCommissions int64             `json:"total_commissions"`
	TotalBonuses     int64             `json:"total_bonuses"`
	TotalDeductions  int64             `json:"total_deductions"`
	NetPay           int64             `json:"net_pay"`
	CommissionLines  []commission.Line `json:"commission_lines"`
	Notes            *string           `json:"notes,omitempty"`
	Status           string            `json:"status"`
	ReleasedDate     *string           `json:"released_date,omitempty"`
	ReleasedBy       *string           `json:"released_by,omitempty"`
}

func ToPayslipResponse(p Payslip) PayslipResponse {
	lines := p.CommissionLines
	if lines == nil {
		lines = []commission.Line{}
	}
	return PayslipResponse{
		ID:               p.ID,
		EmployeeID:       p.EmployeeID,
		EmployeeName:     p.EmployeeName,
		RequestID:        p.RequestID,
		PeriodStart:      p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:        p.PeriodEnd.Format("2006-01-02"),
		PresentDays:      p.PresentDays,
		DailyRate:        p.DailyRate,
		BaseSalary:       p.BaseSalary,
		TotalCommissions: p.TotalCommissions,
		TotalBonuses:     p.TotalBonuses,
		TotalDeductions:  p.TotalDeductions,
		NetPay:           p.NetPay,
		CommissionLines:  lines,
		Notes:            p.Notes,
		Status:           string(p.Status),
		ReleasedDate:     formatTime(p.ReleasedDate),
		ReleasedBy:       p.ReleasedBy,
	}
}

type ListPayslipResponse struct {
	Data       []PayslipResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

// ========== SNAPSHOT DTOs ==========

type SalarySnapshotResponse struct {
	EmployeeID                 string  `json:"employee_id"`
	Balance                    int64   `json:"balance"`
	PeriodStart                string  `json:"period_start"`
	AsOf                       string  `json:"as_of"`
	AttendanceSinceLastRelease int     `json:"attendance_since_last_release"`
	CommissionSinceLastRelease int64   `json:"commission_since_last_release"`
	LastReleasedAt             *string `json:"last_released_at,omitempty"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
