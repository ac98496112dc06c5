package payroll

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/expense"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/pdf"
)

type LifecycleService struct {
	clock
	tx database.Transactor
	employee.EmployeeRepository
	payroll.PayslipRepository
	expense.ExpenseRepository
	notifier notification.Service
	logger   *slog.Logger
}

func NewLifecycleService(
	c clock,
	tx database.Transactor,
	employeeRepository employee.EmployeeRepository,
	payslipRepository payroll.PayslipRepository,
	expenseRepository expense.ExpenseRepository,
	notifier notification.Service,
	logger *slog.Logger,
) *LifecycleService {
	return &LifecycleService{
		clock:              c,
		tx:                 tx,
		EmployeeRepository: employeeRepository,
		PayslipRepository:  payslipRepository,
		ExpenseRepository:  expenseRepository,
		notifier:           notifier,
		logger:             logger,
	}
}

// ========== RELEASE ==========

// ReleasePayslip implements payroll.PayrollService. The status change, the
// balance reset and the salary expense entry commit together or not at all.
func (l *LifecycleService) ReleasePayslip(ctx context.Context, actor user.Actor, payslipID string) error {
	if !actor.Can(user.PermissionPayslipRelease) {
		return user.ErrAdminPrivilegeRequired
	}

	now := l.now()

	var released payroll.Payslip
	err := l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := l.PayslipRepository.GetByIDForUpdate(ctx, payslipID)
		if err != nil {
			return err
		}
		if err := p.Release(now, actor.UserID); err != nil {
			return err
		}
		if err := l.PayslipRepository.MarkReleased(ctx, p.ID, now, actor.UserID); err != nil {
			return err
		}

		emp, err := l.EmployeeRepository.GetByIDForUpdate(ctx, p.EmployeeID)
		if err != nil {
			return err
		}
		emp.ResetBalance()
		if err := l.EmployeeRepository.UpdateBalance(ctx, emp.ID, emp.SalaryBalance); err != nil {
			return err
		}

		referenceType := expense.ReferencePayslip
		_, err = l.ExpenseRepository.Create(ctx, expense.Entry{
			Category: expense.CategorySalary,
			Amount:   p.NetPay,
			Description: fmt.Sprintf("Salary payment to %s for %s to %s",
				emp.FullName, dateutil.Format(p.PeriodStart), dateutil.Format(p.PeriodEnd)),
			EmployeeID:    &emp.ID,
			ReferenceType: &referenceType,
			ReferenceID:   &p.ID,
			RecordedBy:    actor.UserID,
			RecordedAt:    now,
		})
		if err != nil {
			return err
		}

		released = p
		return nil
	})
	if err != nil {
		return err
	}

	l.logger.Info("payslip released",
		slog.String("payslip_id", released.ID),
		slog.String("employee_id", released.EmployeeID),
		slog.String("released_by", actor.UserID),
		slog.Int64("net_pay", released.NetPay),
	)
	employeeID := released.EmployeeID
	notify(ctx, l.notifier, notification.CreateNotificationRequest{
		RecipientID: &employeeID,
		Audience:    notification.AudienceEmployee,
		Type:        notification.TypePayslipReleased,
		Title:       "Payslip released",
		Message: fmt.Sprintf("Your payslip for %s to %s has been released",
			dateutil.Format(released.PeriodStart), dateutil.Format(released.PeriodEnd)),
		Data: map[string]interface{}{
			"payslip_id": released.ID,
			"net_pay":    released.NetPay,
		},
	})
	return nil
}

// ========== ADJUST ==========

// AdjustPayslip implements payroll.PayrollService.
func (l *LifecycleService) AdjustPayslip(ctx context.Context, actor user.Actor, req payroll.AdjustPayslipRequest) (payroll.PayslipResponse, error) {
	if !actor.Can(user.PermissionPayslipApprove) {
		return payroll.PayslipResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return payroll.PayslipResponse{}, err
	}

	var adjusted payroll.Payslip
	err := l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := l.PayslipRepository.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if err := p.Adjust(req.TotalBonuses, req.TotalDeductions, req.Notes); err != nil {
			return err
		}
		if err := l.PayslipRepository.UpdateAdjustments(ctx, p); err != nil {
			return err
		}
		adjusted = p
		return nil
	})
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	return payroll.ToPayslipResponse(adjusted), nil
}

// ========== QUERIES ==========

func (l *LifecycleService) visiblePayslip(ctx context.Context, actor user.Actor, payslipID string) (payroll.Payslip, error) {
	p, err := l.PayslipRepository.GetByID(ctx, payslipID)
	if err != nil {
		return payroll.Payslip{}, err
	}
	if !actor.CanView(p.EmployeeID, user.PermissionPayrollViewAll) {
		return payroll.Payslip{}, user.ErrNotOwnRecord
	}
	return p, nil
}

// GetPayslip implements payroll.PayrollService.
func (l *LifecycleService) GetPayslip(ctx context.Context, actor user.Actor, payslipID string) (payroll.PayslipResponse, error) {
	p, err := l.visiblePayslip(ctx, actor, payslipID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return payroll.ToPayslipResponse(p), nil
}

// ListPayslips implements payroll.PayrollService.
func (l *LifecycleService) ListPayslips(ctx context.Context, actor user.Actor, filter payroll.PayslipFilter) (payroll.ListPayslipResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayslipResponse{}, err
	}
	filter.Normalize()

	if !actor.Can(user.PermissionPayrollViewAll) {
		if actor.EmployeeID == nil {
			return payroll.ListPayslipResponse{}, user.ErrInsufficientPermissions
		}
		filter.EmployeeID = actor.EmployeeID
	}

	payslips, total, err := l.PayslipRepository.List(ctx, filter)
	if err != nil {
		return payroll.ListPayslipResponse{}, err
	}

	data := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		data = append(data, payroll.ToPayslipResponse(p))
	}

	return payroll.ListPayslipResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// RenderPayslipPDF implements payroll.PayrollService.
func (l *LifecycleService) RenderPayslipPDF(ctx context.Context, actor user.Actor, payslipID string, w io.Writer) error {
	p, err := l.visiblePayslip(ctx, actor, payslipID)
	if err != nil {
		return err
	}
	if p.Status != payroll.PayslipStatusReleased {
		return payroll.ErrPayslipNotReleased
	}
	return pdf.RenderPayslip(w, p)
}
