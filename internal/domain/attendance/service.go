package attendance

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
)

// AttendanceService defines business logic for the attendance ledger
type AttendanceService interface {
	// MarkAttendance upserts a day's presence and adjusts the running balance
	MarkAttendance(ctx context.Context, actor user.Actor, req MarkAttendanceRequest) (MarkAttendanceResponse, error)

	// GetAttendance lists an employee's records within a date range
	GetAttendance(ctx context.Context, actor user.Actor, filter AttendanceFilter) ([]AttendanceResponse, error)
}
