package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/dateutil"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	payroll.PayslipRepository

	loc    *time.Location
	epoch  time.Time
	now    func() time.Time
	logger *slog.Logger
}

// Options carries the calendar settings shared by the payroll services.
type Options struct {
	Location *time.Location
	// Epoch is the first billable date. Zero accepts any past date.
	Epoch  time.Time
	Now    func() time.Time
	Logger *slog.Logger
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	payslipRepository payroll.PayslipRepository,
	opts Options,
) attendance.AttendanceService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		PayslipRepository:    payslipRepository,
		loc:                  opts.Location,
		epoch:                dateutil.Normalize(opts.Epoch),
		now:                  opts.Now,
		logger:               opts.Logger,
	}
}

// MarkAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, actor user.Actor, req attendance.MarkAttendanceRequest) (attendance.MarkAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}
	if err := actor.Require(user.PermissionAttendanceMark); err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	date, err := dateutil.Parse(req.Date)
	if err != nil {
		return attendance.MarkAttendanceResponse{}, fmt.Errorf("parse date: %w", err)
	}
	now := s.now()
	if date.After(dateutil.Date(now, s.loc)) {
		return attendance.MarkAttendanceResponse{}, attendance.ErrFutureDate
	}
	if !s.epoch.IsZero() && date.Before(s.epoch) {
		return attendance.MarkAttendanceResponse{}, attendance.ErrBeforeEpoch
	}

	var (
		saved      attendance.Record
		newBalance *int64
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// The employee row lock serializes balance updates for this employee.
		emp, err := s.EmployeeRepository.GetByIDForUpdate(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		lastReleased, err := s.PayslipRepository.LatestReleased(ctx, emp.ID, nil)
		if err != nil {
			return err
		}
		locked := payroll.IsLocked(lastReleased, date)

		record, previous, err := s.AttendanceRepository.Upsert(ctx, attendance.Record{
			EmployeeID: emp.ID,
			Date:       date,
			IsPresent:  *req.IsPresent,
			CheckedBy:  actor.UserID,
			CheckedAt:  now,
			Note:       req.Note,
		})
		if err != nil {
			return err
		}
		saved = record

		delta := attendance.BalanceDelta(previous, record.IsPresent, locked, emp.DailyRate)
		if delta == 0 {
			return nil
		}
		balance := emp.ApplyBalanceDelta(delta)
		if err := s.EmployeeRepository.UpdateBalance(ctx, emp.ID, balance); err != nil {
			return err
		}
		newBalance = &balance
		return nil
	})
	if err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	s.logger.Debug("attendance marked",
		slog.String("employee_id", saved.EmployeeID),
		slog.String("date", dateutil.Format(saved.Date)),
		slog.Bool("is_present", saved.IsPresent),
	)

	return attendance.MarkAttendanceResponse{
		Record:     attendance.ToResponse(saved),
		NewBalance: newBalance,
	}, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, actor user.Actor, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if !actor.CanView(filter.EmployeeID, user.PermissionAttendanceViewAll) {
		return nil, user.ErrNotOwnRecord
	}

	start, _ := dateutil.Parse(filter.StartDate)
	end, _ := dateutil.Parse(filter.EndDate)

	if _, err := s.EmployeeRepository.GetByID(ctx, filter.EmployeeID); err != nil {
		return nil, err
	}

	records, err := s.AttendanceRepository.ListByEmployee(ctx, filter.EmployeeID, start, end)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.ToResponse(r))
	}
	return responses, nil
}
