package payroll

import "time"

// RequestStatus enum
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusProcessed RequestStatus = "PROCESSED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusFailed    RequestStatus = "FAILED"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusProcessed, RequestStatusRejected, RequestStatusFailed:
		return true
	}
	return false
}

func (s RequestStatus) IsTerminal() bool {
	return s.IsValid() && s != RequestStatusPending
}

// PayslipRequest - Employee-initiated request for a payslip
type PayslipRequest struct {
	ID          string
	EmployeeID  string
	RequestedAt time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	Status      RequestStatus
	Notes       *string
	PayslipID   *string
	ProcessedBy *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
}

func (r *PayslipRequest) transition(to RequestStatus, by string, at time.Time, notes *string) error {
	if r.Status != RequestStatusPending {
		return ErrRequestNotPending
	}
	r.Status = to
	r.ProcessedBy = &by
	r.ProcessedAt = &at
	r.UpdatedAt = at
	if notes != nil {
		r.Notes = notes
	}
	return nil
}

// MarkProcessed links the materialized payslip and closes the request.
func (r *PayslipRequest) MarkProcessed(payslipID, by string, at time.Time) error {
	if err := r.transition(RequestStatusProcessed, by, at, nil); err != nil {
		return err
	}
	r.PayslipID = &payslipID
	return nil
}

func (r *PayslipRequest) MarkRejected(by, reason string, at time.Time) error {
	return r.transition(RequestStatusRejected, by, at, &reason)
}

// MarkFailed records why approval could not complete.
func (r *PayslipRequest) MarkFailed(by, cause string, at time.Time) error {
	return r.transition(RequestStatusFailed, by, at, &cause)
}
