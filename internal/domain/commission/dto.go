package commission

import (
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

type CommissionFilter struct {
	EmployeeID string
	StartDate  string
	EndDate    string
}

func (f *CommissionFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	start, startOK := validator.IsValidDate(f.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(f.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "end_date must not precede start_date")
	}

	return errs.Err()
}

type BreakdownResponse struct {
	EmployeeID       string  `json:"employee_id"`
	PeriodStart      string  `json:"period_start"`
	PeriodEnd        string  `json:"period_end"`
	CountedAfter     *string `json:"counted_after,omitempty"`
	Lines            []Line  `json:"lines"`
	TotalCommissions int64   `json:"total_commissions"`
}
