package attendance

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type MarkAttendanceRequest struct {
	EmployeeID string  `json:"-"`
	Date       string  `json:"date"`
	IsPresent  *bool   `json:"is_present"`
	Note       *string `json:"note,omitempty"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	if r.IsPresent == nil {
		errs.Add("is_present", "is_present is required")
	}

	if r.Note != nil && len(*r.Note) > 500 {
		errs.Add("note", "note must not exceed 500 characters")
	}

	return errs.Err()
}

type AttendanceFilter struct {
	EmployeeID string
	StartDate  string
	EndDate    string
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(f.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(f.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", ErrInvalidDateRange.Error())
	}

	return errs.Err()
}

type AttendanceResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	IsPresent  bool    `json:"is_present"`
	CheckedBy  string  `json:"checked_by"`
	CheckedAt  string  `json:"checked_at"`
	Note       *string `json:"note,omitempty"`
}

type MarkAttendanceResponse struct {
	Record AttendanceResponse `json:"record"`
	// NewBalance is set only when the running balance changed.
	NewBalance *int64 `json:"new_balance,omitempty"`
}

func ToResponse(r Record) AttendanceResponse {
	return AttendanceResponse{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Date:       r.Date.Format("2006-01-02"),
		IsPresent:  r.IsPresent,
		CheckedBy:  r.CheckedBy,
		CheckedAt:  r.CheckedAt.Format(time.RFC3339),
		Note:       r.Note,
	}
}
