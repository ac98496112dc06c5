package commission

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/dateutil"
)

type CommissionServiceImpl struct {
	commission.WorkItemRepository
	payroll.PayslipRepository
	employee.EmployeeRepository
	loc *time.Location
}

func NewCommissionService(
	workItemRepository commission.WorkItemRepository,
	payslipRepository payroll.PayslipRepository,
	employeeRepository employee.EmployeeRepository,
	loc *time.Location,
) commission.CommissionService {
	if loc == nil {
		loc = time.UTC
	}
	return &CommissionServiceImpl{
		WorkItemRepository: workItemRepository,
		PayslipRepository:  payslipRepository,
		EmployeeRepository: employeeRepository,
		loc:                loc,
	}
}

// Breakdown implements commission.CommissionService. Work is counted after the
// release instant of the latest payslip whose period ended before periodStart.
func (s *CommissionServiceImpl) Breakdown(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]commission.Line, commission.Window, error) {
	start := dateutil.Normalize(periodStart)
	previous, err := s.PayslipRepository.LatestReleased(ctx, employeeID, &start)
	if err != nil {
		return nil, commission.Window{}, err
	}

	var releasedAt *time.Time
	if previous != nil {
		releasedAt = previous.ReleasedDate
	}
	window := commission.NewWindow(releasedAt, periodEnd, s.loc)

	lines, err := s.LinesInWindow(ctx, employeeID, window)
	if err != nil {
		return nil, commission.Window{}, err
	}
	return lines, window, nil
}

// LinesInWindow implements commission.CommissionService.
func (s *CommissionServiceImpl) LinesInWindow(ctx context.Context, employeeID string, window commission.Window) ([]commission.Line, error) {
	items, err := s.WorkItemRepository.ListCompleted(ctx, employeeID, window)
	if err != nil {
		return nil, err
	}
	return commission.ToLines(items), nil
}

// GetCommissionBreakdown implements commission.CommissionService.
func (s *CommissionServiceImpl) GetCommissionBreakdown(ctx context.Context, actor user.Actor, filter commission.CommissionFilter) (commission.BreakdownResponse, error) {
	if err := filter.Validate(); err != nil {
		return commission.BreakdownResponse{}, err
	}
	if !actor.CanView(filter.EmployeeID, user.PermissionPayrollViewAll) {
		return commission.BreakdownResponse{}, user.ErrNotOwnRecord
	}
	if _, err := s.EmployeeRepository.GetByID(ctx, filter.EmployeeID); err != nil {
		return commission.BreakdownResponse{}, err
	}

	start, _ := dateutil.Parse(filter.StartDate)
	end, _ := dateutil.Parse(filter.EndDate)

	lines, window, err := s.Breakdown(ctx, filter.EmployeeID, start, end)
	if err != nil {
		return commission.BreakdownResponse{}, err
	}

	resp := commission.BreakdownResponse{
		EmployeeID:       filter.EmployeeID,
		PeriodStart:      dateutil.Format(start),
		PeriodEnd:        dateutil.Format(end),
		Lines:            lines,
		TotalCommissions: commission.Total(lines),
	}
	if window.After != nil {
		after := window.After.Format(time.RFC3339)
		resp.CountedAfter = &after
	}
	return resp, nil
}
