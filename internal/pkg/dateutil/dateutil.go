// Package dateutil provides calendar-date helpers for the payroll business
// calendar. A date is a time.Time at UTC midnight of the civil day, the same
// shape pgx produces for DATE columns. The business location only matters
// when converting between instants and days.
package dateutil

import (
	"time"
)

const Layout = "2006-01-02"

// Date returns the civil day of instant t as observed in loc.
func Date(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Normalize drops any clock component and location from a date value.
func Normalize(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func DayAfter(date time.Time) time.Time {
	return date.AddDate(0, 0, 1)
}

// StartOfDay is the first instant of date in loc.
func StartOfDay(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// NextDayStart is the exclusive upper bound of date's day in loc.
func NextDayStart(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

// EndOfDay is the last representable instant of date's day in loc.
func EndOfDay(date time.Time, loc *time.Location) time.Time {
	return NextDayStart(date, loc).Add(-time.Nanosecond)
}

// Parse reads a YYYY-MM-DD string as a date.
func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

func Format(date time.Time) string {
	return date.Format(Layout)
}

// DaysInclusive counts calendar days in [start, end]; zero when end precedes start.
func DaysInclusive(start, end time.Time) int {
	start, end = Normalize(start), Normalize(end)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
