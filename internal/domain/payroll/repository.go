package payroll

import (
	"context"
	"time"
)

// PayslipRepository defines data access methods for payslips.
type PayslipRepository interface {
	// Create fails with ErrPayslipAlreadyExists when the employee already has
	// a payslip for the same period.
	Create(ctx context.Context, payslip Payslip) (Payslip, error)
	GetByID(ctx context.Context, id string) (Payslip, error)
	GetByIDForUpdate(ctx context.Context, id string) (Payslip, error)

	// LatestReleased returns the released payslip with the greatest period end,
	// restricted to periods ending before endingBefore when it is set. It
	// returns nil when no such payslip exists.
	LatestReleased(ctx context.Context, employeeID string, endingBefore *time.Time) (*Payslip, error)
	HasPending(ctx context.Context, employeeID string) (bool, error)
	List(ctx context.Context, filter PayslipFilter) ([]Payslip, int64, error)

	// MarkReleased and UpdateAdjustments only touch PENDING rows and return
	// ErrPayslipNotPending otherwise.
	MarkReleased(ctx context.Context, id string, releasedAt time.Time, releasedBy string) error
	UpdateAdjustments(ctx context.Context, payslip Payslip) error
}

// PayslipRequestRepository defines data access methods for payslip requests.
type PayslipRequestRepository interface {
	Create(ctx context.Context, request PayslipRequest) (PayslipRequest, error)
	GetByID(ctx context.Context, id string) (PayslipRequest, error)
	GetByIDForUpdate(ctx context.Context, id string) (PayslipRequest, error)
	ExistsPending(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (bool, error)
	List(ctx context.Context, filter RequestFilter) ([]PayslipRequest, error)

	// UpdateStatus persists a transition out of PENDING. It returns
	// ErrRequestNotPending when the stored row already left PENDING.
	UpdateStatus(ctx context.Context, request PayslipRequest) error
}
