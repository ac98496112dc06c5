package commission

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/dateutil"
)

const StatusCompleted = "completed"

// WorkItem is a unit of served work supplied by the transaction subsystem.
type WorkItem struct {
	ID              string
	ServedBy        string
	ServiceTitle    string
	CustomerName    string
	CommissionValue int64
	Status          string
	CompletedAt     *time.Time
	CreatedAt       time.Time
}

// Line is one work item's contribution to a commission total.
type Line struct {
	WorkItemID       string    `json:"work_item_id"`
	ServiceTitle     string    `json:"service_title"`
	CustomerName     string    `json:"customer_name"`
	CommissionEarned int64     `json:"commission_earned"`
	CompletedAt      time.Time `json:"completion_timestamp"`
}

// Window bounds commission by completion instant: After (exclusive, nil for
// all history) to Before (exclusive).
type Window struct {
	After  *time.Time
	Before time.Time
}

// NewWindow builds the window for a period ending on periodEnd whose cutoff is
// the release instant of the previous payslip.
func NewWindow(releasedAt *time.Time, periodEnd time.Time, loc *time.Location) Window {
	return Window{
		After:  releasedAt,
		Before: dateutil.NextDayStart(periodEnd, loc),
	}
}

// Contains reports whether an instant falls in the window.
func (w Window) Contains(t time.Time) bool {
	if w.After != nil && !t.After(*w.After) {
		return false
	}
	return t.Before(w.Before)
}

func ToLines(items []WorkItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		if item.CompletedAt == nil {
			continue
		}
		lines = append(lines, Line{
			WorkItemID:       item.ID,
			ServiceTitle:     item.ServiceTitle,
			CustomerName:     item.CustomerName,
			CommissionEarned: item.CommissionValue,
			CompletedAt:      *item.CompletedAt,
		})
	}
	return lines
}

func Total(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.CommissionEarned
	}
	return total
}
