package payroll

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/expense"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/dateutil"
)

// Options carries the business calendar and clock shared by the payroll services.
type Options struct {
	Location *time.Location
	// Epoch is the first billable date when an employee has no released payslip.
	Epoch  time.Time
	Now    func() time.Time
	Logger *slog.Logger
}

type clock struct {
	loc   *time.Location
	epoch time.Time
	now   func() time.Time
}

// today is the current civil date in the business location.
func (c clock) today() time.Time {
	return dateutil.Date(c.now(), c.loc)
}

type PayrollServiceImpl struct {
	*Resolver
	*RequestService
	*LifecycleService
}

func NewPayrollService(
	tx database.Transactor,
	employeeRepository employee.EmployeeRepository,
	attendanceRepository attendance.AttendanceRepository,
	payslipRepository payroll.PayslipRepository,
	requestRepository payroll.PayslipRequestRepository,
	expenseRepository expense.ExpenseRepository,
	commissionService commission.CommissionService,
	notifier notification.Service,
	opts Options,
) payroll.PayrollService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	c := clock{loc: opts.Location, epoch: dateutil.Normalize(opts.Epoch), now: opts.Now}

	resolver := NewResolver(c, employeeRepository, attendanceRepository, payslipRepository, commissionService)
	return &PayrollServiceImpl{
		Resolver:         resolver,
		RequestService:   NewRequestService(c, tx, resolver, requestRepository, notifier, opts.Logger),
		LifecycleService: NewLifecycleService(c, tx, employeeRepository, payslipRepository, expenseRepository, notifier, opts.Logger),
	}
}

// notify hands an alert to the async queue. Alerts never affect the
// outcome of the operation that raised them.
func notify(ctx context.Context, notifier notification.Service, req notification.CreateNotificationRequest) {
	if notifier == nil {
		return
	}
	notifier.Queue(context.WithoutCancel(ctx), req)
}
