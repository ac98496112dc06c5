package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Upsert writes the record for (EmployeeID, Date) and returns the stored
	// record with the presence value it replaced, nil when the day was new.
	Upsert(ctx context.Context, record Record) (Record, *bool, error)

	// ListByEmployee returns records dated within [start, end], oldest first.
	ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]Record, error)

	// CountPresent counts present days within [start, end].
	CountPresent(ctx context.Context, employeeID string, start, end time.Time) (int, error)
}
