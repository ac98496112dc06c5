package payroll

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/dateutil"
)

// Resolver derives pay periods and accrual figures from committed history.
// Nothing here writes.
type Resolver struct {
	clock
	employee.EmployeeRepository
	attendance.AttendanceRepository
	payroll.PayslipRepository
	commissions commission.CommissionService
}

func NewResolver(
	c clock,
	employeeRepository employee.EmployeeRepository,
	attendanceRepository attendance.AttendanceRepository,
	payslipRepository payroll.PayslipRepository,
	commissionService commission.CommissionService,
) *Resolver {
	return &Resolver{
		clock:                c,
		EmployeeRepository:   employeeRepository,
		AttendanceRepository: attendanceRepository,
		PayslipRepository:    payslipRepository,
		commissions:          commissionService,
	}
}

// resolve returns the next billable period ending on end together with the
// release that closed the previous one (nil when there is none).
func (r *Resolver) resolve(ctx context.Context, employeeID string, end time.Time) (payroll.Period, *payroll.Payslip, error) {
	last, err := r.PayslipRepository.LatestReleased(ctx, employeeID, nil)
	if err != nil {
		return payroll.Period{}, nil, err
	}
	return payroll.ResolvePeriod(last, r.epoch, end), last, nil
}

// presentDays counts present days in [start, end]; a start past end counts nothing.
func (r *Resolver) presentDays(ctx context.Context, employeeID string, start, end time.Time) (int, error) {
	if start.After(end) {
		return 0, nil
	}
	return r.AttendanceRepository.CountPresent(ctx, employeeID, start, end)
}

// ========== PERIOD ==========

// ResolvePayPeriod implements payroll.PayrollService.
func (r *Resolver) ResolvePayPeriod(ctx context.Context, actor user.Actor, req payroll.ResolvePeriodRequest) (payroll.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PeriodResponse{}, err
	}
	if !actor.CanView(req.EmployeeID, user.PermissionPayrollViewAll) {
		return payroll.PeriodResponse{}, user.ErrNotOwnRecord
	}
	if _, err := r.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.PeriodResponse{}, err
	}

	end := r.today()
	if req.EndDate != nil {
		end, _ = dateutil.Parse(*req.EndDate)
	}

	period, _, err := r.resolve(ctx, req.EmployeeID, end)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	return payroll.PeriodResponse{
		EmployeeID:  req.EmployeeID,
		PeriodStart: dateutil.Format(period.Start),
		PeriodEnd:   dateutil.Format(period.End),
		Days:        period.Days(),
	}, nil
}

// ========== SNAPSHOT ==========

// GetSalarySnapshot implements payroll.PayrollService.
func (r *Resolver) GetSalarySnapshot(ctx context.Context, actor user.Actor, employeeID string) (payroll.SalarySnapshotResponse, error) {
	if !actor.CanView(employeeID, user.PermissionPayrollViewAll) {
		return payroll.SalarySnapshotResponse{}, user.ErrNotOwnRecord
	}

	emp, err := r.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.SalarySnapshotResponse{}, err
	}

	today := r.today()
	period, last, err := r.resolve(ctx, emp.ID, today)
	if err != nil {
		return payroll.SalarySnapshotResponse{}, err
	}

	days, err := r.presentDays(ctx, emp.ID, period.Start, today)
	if err != nil {
		return payroll.SalarySnapshotResponse{}, err
	}

	var releasedAt *time.Time
	if last != nil {
		releasedAt = last.ReleasedDate
	}
	lines, err := r.commissions.LinesInWindow(ctx, emp.ID, commission.NewWindow(releasedAt, today, r.loc))
	if err != nil {
		return payroll.SalarySnapshotResponse{}, err
	}

	var lastReleasedAt *string
	if releasedAt != nil {
		s := releasedAt.Format(time.RFC3339)
		lastReleasedAt = &s
	}

	return payroll.SalarySnapshotResponse{
		EmployeeID:                 emp.ID,
		Balance:                    emp.SalaryBalance,
		PeriodStart:                dateutil.Format(period.Start),
		AsOf:                       dateutil.Format(today),
		AttendanceSinceLastRelease: days,
		CommissionSinceLastRelease: commission.Total(lines),
		LastReleasedAt:             lastReleasedAt,
	}, nil
}
