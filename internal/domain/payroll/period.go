package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/dateutil"
)

// Period is an inclusive range of civil dates.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) Days() int {
	return dateutil.DaysInclusive(p.Start, p.End)
}

// ResolvePeriod derives the next billable period. It starts the day after the
// last released period, or at epoch when nothing was released yet, and ends
// on requestedEnd clamped so it never precedes the start.
func ResolvePeriod(lastReleased *Payslip, epoch, requestedEnd time.Time) Period {
	start := dateutil.Normalize(epoch)
	if lastReleased != nil {
		start = dateutil.DayAfter(dateutil.Normalize(lastReleased.PeriodEnd))
	}
	end := dateutil.Normalize(requestedEnd)
	if end.Before(start) {
		end = start
	}
	return Period{Start: start, End: end}
}

// IsLocked reports whether date falls on or before the end of the last
// released period.
func IsLocked(lastReleased *Payslip, date time.Time) bool {
	if lastReleased == nil {
		return false
	}
	return !dateutil.Normalize(date).After(dateutil.Normalize(lastReleased.PeriodEnd))
}
