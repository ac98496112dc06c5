package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/dateutil"
)

type RequestService struct {
	clock
	tx       database.Transactor
	resolver *Resolver
	payroll.PayslipRequestRepository
	notifier notification.Service
	logger   *slog.Logger
}

func NewRequestService(
	c clock,
	tx database.Transactor,
	resolver *Resolver,
	requestRepository payroll.PayslipRequestRepository,
	notifier notification.Service,
	logger *slog.Logger,
) *RequestService {
	return &RequestService{
		clock:                    c,
		tx:                       tx,
		resolver:                 resolver,
		PayslipRequestRepository: requestRepository,
		notifier:                 notifier,
		logger:                   logger,
	}
}

// guardError marks an approval precondition failure. Those are returned
// as is and leave the request PENDING.
type guardError struct {
	err error
}

func (e *guardError) Error() string { return e.err.Error() }

func (e *guardError) Unwrap() error { return e.err }

func guard(err error) error {
	return &guardError{err: err}
}

// ========== SUBMIT ==========

// SubmitRequest implements payroll.PayrollService.
func (r *RequestService) SubmitRequest(ctx context.Context, actor user.Actor) (payroll.PayslipRequestResponse, error) {
	if err := actor.Require(user.PermissionPayslipRequest); err != nil {
		return payroll.PayslipRequestResponse{}, err
	}
	if actor.EmployeeID == nil {
		return payroll.PayslipRequestResponse{}, employee.ErrNotPayrollEligible
	}

	now := r.now()
	today := r.today()

	var created payroll.PayslipRequest
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := r.resolver.EmployeeRepository.GetByIDForUpdate(ctx, *actor.EmployeeID)
		if err != nil {
			return err
		}
		if !emp.CanRequestPayslip {
			return employee.ErrPayslipNotPermitted
		}
		if !emp.IsPayrollEligible() {
			return employee.ErrNotPayrollEligible
		}

		period, last, err := r.resolver.resolve(ctx, emp.ID, today)
		if err != nil {
			return err
		}

		exists, err := r.PayslipRequestRepository.ExistsPending(ctx, emp.ID, period.Start, period.End)
		if err != nil {
			return err
		}
		if exists {
			return payroll.ErrDuplicatePendingRequest
		}

		// A request must carry commission earned after the last release.
		var releasedAt *time.Time
		if last != nil {
			releasedAt = last.ReleasedDate
		}
		lines, err := r.resolver.commissions.LinesInWindow(ctx, emp.ID, commission.NewWindow(releasedAt, period.End, r.loc))
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return payroll.ErrNoNewEarnings
		}

		created, err = r.PayslipRequestRepository.Create(ctx, payroll.PayslipRequest{
			EmployeeID:  emp.ID,
			RequestedAt: now,
			PeriodStart: period.Start,
			PeriodEnd:   period.End,
			Status:      payroll.RequestStatusPending,
		})
		if err != nil {
			return err
		}
		created.EmployeeName = &emp.FullName
		return nil
	})
	if err != nil {
		return payroll.PayslipRequestResponse{}, err
	}

	r.logger.Info("payslip request submitted",
		slog.String("request_id", created.ID),
		slog.String("employee_id", created.EmployeeID),
		slog.String("period_start", dateutil.Format(created.PeriodStart)),
		slog.String("period_end", dateutil.Format(created.PeriodEnd)),
	)
	notify(ctx, r.notifier, notification.CreateNotificationRequest{
		Audience: notification.AudienceAdmins,
		Type:     notification.TypePayslipRequestSubmitted,
		Title:    "New payslip request",
		Message: fmt.Sprintf("%s requested a payslip for %s to %s",
			*created.EmployeeName, dateutil.Format(created.PeriodStart), dateutil.Format(created.PeriodEnd)),
		Data: map[string]interface{}{
			"request_id":  created.ID,
			"employee_id": created.EmployeeID,
		},
	})

	return payroll.ToRequestResponse(created), nil
}

// ========== APPROVE ==========

// ApproveRequest implements payroll.PayrollService. A computation or storage
// failure after the guards pass moves the request to FAILED with the cause in
// its notes; no payslip survives such a failure.
func (r *RequestService) ApproveRequest(ctx context.Context, actor user.Actor, requestID string) (payroll.PayslipResponse, error) {
	if !actor.Can(user.PermissionPayslipApprove) {
		return payroll.PayslipResponse{}, user.ErrAdminPrivilegeRequired
	}

	now := r.now()

	var created payroll.Payslip
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		req, err := r.PayslipRequestRepository.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return guard(err)
		}
		if req.Status != payroll.RequestStatusPending {
			return guard(payroll.ErrRequestNotPending)
		}

		emp, err := r.resolver.EmployeeRepository.GetByIDForUpdate(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		// An unreleased payslip would share the commission window.
		pending, err := r.resolver.PayslipRepository.HasPending(ctx, emp.ID)
		if err != nil {
			return err
		}
		if pending {
			return guard(payroll.ErrPendingPayslipExists)
		}

		period, last, err := r.resolver.resolve(ctx, emp.ID, req.PeriodEnd)
		if err != nil {
			return err
		}
		// A later release already paid out this window.
		if last != nil && !dateutil.Normalize(last.PeriodEnd).Before(dateutil.Normalize(req.PeriodEnd)) {
			return payroll.ErrRequestSuperseded
		}

		payslip, err := r.materialize(ctx, req, emp, period)
		if err != nil {
			return err
		}

		if err := req.MarkProcessed(payslip.ID, actor.UserID, now); err != nil {
			return err
		}
		if err := r.PayslipRequestRepository.UpdateStatus(ctx, req); err != nil {
			return err
		}

		payslip.EmployeeName = &emp.FullName
		created = payslip
		return nil
	})
	if err == nil {
		r.logger.Info("payslip request approved",
			slog.String("request_id", requestID),
			slog.String("payslip_id", created.ID),
			slog.String("employee_id", created.EmployeeID),
			slog.Int64("net_pay", created.NetPay),
		)
		return payroll.ToPayslipResponse(created), nil
	}

	var ge *guardError
	if errors.As(err, &ge) {
		return payroll.PayslipResponse{}, ge.err
	}

	r.fail(ctx, actor, requestID, err)
	return payroll.PayslipResponse{}, err
}

// materialize computes and stores the payslip for req over period, which
// starts the day after the latest release. Commission is counted after that
// release instant.
func (r *RequestService) materialize(ctx context.Context, req payroll.PayslipRequest, emp employee.Employee, period payroll.Period) (payroll.Payslip, error) {
	end := dateutil.Normalize(req.PeriodEnd)

	days, err := r.resolver.presentDays(ctx, emp.ID, period.Start, end)
	if err != nil {
		return payroll.Payslip{}, err
	}

	lines, _, err := r.resolver.commissions.Breakdown(ctx, emp.ID, period.Start, end)
	if err != nil {
		return payroll.Payslip{}, err
	}

	requestID := req.ID
	payslip := payroll.Payslip{
		EmployeeID:       emp.ID,
		RequestID:        &requestID,
		PeriodStart:      period.Start,
		PeriodEnd:        end,
		PresentDays:      days,
		DailyRate:        emp.DailyRate,
		BaseSalary:       int64(days) * emp.DailyRate,
		TotalCommissions: commission.Total(lines),
		CommissionLines:  lines,
		Status:           payroll.PayslipStatusPending,
	}
	payslip.ComputeNetPay()

	return r.resolver.PayslipRepository.Create(ctx, payslip)
}

// fail records cause on the request in a separate transaction.
func (r *RequestService) fail(ctx context.Context, actor user.Actor, requestID string, cause error) {
	var employeeID string
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		req, err := r.PayslipRequestRepository.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		employeeID = req.EmployeeID
		if err := req.MarkFailed(actor.UserID, cause.Error(), r.now()); err != nil {
			return err
		}
		return r.PayslipRequestRepository.UpdateStatus(ctx, req)
	})
	if err != nil {
		r.logger.Error("failed to mark payslip request as failed",
			slog.String("request_id", requestID),
			slog.String("cause", cause.Error()),
			slog.String("error", err.Error()),
		)
		return
	}

	r.logger.Warn("payslip request failed",
		slog.String("request_id", requestID),
		slog.String("employee_id", employeeID),
		slog.String("cause", cause.Error()),
	)
	notify(ctx, r.notifier, notification.CreateNotificationRequest{
		Audience: notification.AudienceAdmins,
		Type:     notification.TypePayslipRequestFailed,
		Title:    "Payslip approval failed",
		Message:  fmt.Sprintf("Approval of payslip request %s failed: %s", requestID, cause.Error()),
		Data: map[string]interface{}{
			"request_id":  requestID,
			"employee_id": employeeID,
		},
	})
}

// ========== REJECT ==========

// RejectRequest implements payroll.PayrollService.
func (r *RequestService) RejectRequest(ctx context.Context, actor user.Actor, req payroll.RejectRequest) error {
	if !actor.Can(user.PermissionPayslipApprove) {
		return user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return err
	}

	var rejected payroll.PayslipRequest
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := r.PayslipRequestRepository.GetByIDForUpdate(ctx, req.RequestID)
		if err != nil {
			return err
		}
		if err := request.MarkRejected(actor.UserID, req.Reason, r.now()); err != nil {
			return err
		}
		if err := r.PayslipRequestRepository.UpdateStatus(ctx, request); err != nil {
			return err
		}
		rejected = request
		return nil
	})
	if err != nil {
		return err
	}

	employeeID := rejected.EmployeeID
	notify(ctx, r.notifier, notification.CreateNotificationRequest{
		RecipientID: &employeeID,
		Audience:    notification.AudienceEmployee,
		Type:        notification.TypePayslipRequestRejected,
		Title:       "Payslip request rejected",
		Message:     req.Reason,
		Data: map[string]interface{}{
			"request_id": rejected.ID,
		},
	})
	return nil
}

// ========== QUERIES ==========

// GetRequest implements payroll.PayrollService.
func (r *RequestService) GetRequest(ctx context.Context, actor user.Actor, requestID string) (payroll.PayslipRequestResponse, error) {
	req, err := r.PayslipRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return payroll.PayslipRequestResponse{}, err
	}
	if !actor.CanView(req.EmployeeID, user.PermissionPayrollViewAll) {
		return payroll.PayslipRequestResponse{}, user.ErrNotOwnRecord
	}
	return payroll.ToRequestResponse(req), nil
}

// ListRequests implements payroll.PayrollService. Actors without payroll
// visibility only see their own requests.
func (r *RequestService) ListRequests(ctx context.Context, actor user.Actor, filter payroll.RequestFilter) ([]payroll.PayslipRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if !actor.Can(user.PermissionPayrollViewAll) {
		if actor.EmployeeID == nil {
			return nil, user.ErrInsufficientPermissions
		}
		filter.EmployeeID = actor.EmployeeID
	}

	requests, err := r.PayslipRequestRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.PayslipRequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, payroll.ToRequestResponse(req))
	}
	return responses, nil
}
