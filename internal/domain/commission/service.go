package commission

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
)

type CommissionService interface {
	// Breakdown lists commission earned in the period starting at periodStart
	// and ending on periodEnd, counted after the release that closed the
	// previous period.
	Breakdown(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]Line, Window, error)

	// LinesInWindow lists commission inside an explicit window.
	LinesInWindow(ctx context.Context, employeeID string, window Window) ([]Line, error)

	GetCommissionBreakdown(ctx context.Context, actor user.Actor, filter CommissionFilter) (BreakdownResponse, error)
}
