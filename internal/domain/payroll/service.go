package payroll

import (
	"context"
	"io"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
)

// PayrollService exposes the payslip request workflow and payslip lifecycle.
type PayrollService interface {
	// Period & snapshot
	ResolvePayPeriod(ctx context.Context, actor user.Actor, req ResolvePeriodRequest) (PeriodResponse, error)
	GetSalarySnapshot(ctx context.Context, actor user.Actor, employeeID string) (SalarySnapshotResponse, error)

	// Requests
	SubmitRequest(ctx context.Context, actor user.Actor) (PayslipRequestResponse, error)
	ApproveRequest(ctx context.Context, actor user.Actor, requestID string) (PayslipResponse, error)
	RejectRequest(ctx context.Context, actor user.Actor, req RejectRequest) error
	GetRequest(ctx context.Context, actor user.Actor, requestID string) (PayslipRequestResponse, error)
	ListRequests(ctx context.Context, actor user.Actor, filter RequestFilter) ([]PayslipRequestResponse, error)

	// Payslips
	ReleasePayslip(ctx context.Context, actor user.Actor, payslipID string) error
	AdjustPayslip(ctx context.Context, actor user.Actor, req AdjustPayslipRequest) (PayslipResponse, error)
	GetPayslip(ctx context.Context, actor user.Actor, payslipID string) (PayslipResponse, error)
	ListPayslips(ctx context.Context, actor user.Actor, filter PayslipFilter) (ListPayslipResponse, error)
	RenderPayslipPDF(ctx context.Context, actor user.Actor, payslipID string, w io.Writer) error
}
