package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/dateutil"
	"github.com/google/uuid"
)

type attendanceRepositoryImpl struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{s: s}
}

func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, record attendance.Record) (attendance.Record, *bool, error) {
	var previous *bool
	err := r.s.do(ctx, "attendance.upsert", func(st *state) error {
		record.Date = dateutil.Normalize(record.Date)
		key := attendanceKey{employeeID: record.EmployeeID, date: dateutil.Format(record.Date)}
		now := time.Now()

		if existing, ok := st.attendance[key]; ok {
			was := existing.IsPresent
			previous = &was
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
		} else {
			record.ID = uuid.Must(uuid.NewV7()).String()
			record.CreatedAt = now
		}
		record.UpdatedAt = now
		st.attendance[key] = record
		return nil
	})
	return record, previous, err
}

func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	records := []attendance.Record{}
	err := r.s.do(ctx, "attendance.list", func(st *state) error {
		for _, rec := range st.attendance {
			if rec.EmployeeID == employeeID && inDateRange(rec.Date, start, end) {
				records = append(records, rec)
			}
		}
		return nil
	})
	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records, err
}

func (r *attendanceRepositoryImpl) CountPresent(ctx context.Context, employeeID string, start, end time.Time) (int, error) {
	count := 0
	err := r.s.do(ctx, "attendance.count_present", func(st *state) error {
		for _, rec := range st.attendance {
			if rec.EmployeeID == employeeID && rec.IsPresent && inDateRange(rec.Date, start, end) {
				count++
			}
		}
		return nil
	})
	return count, err
}

func inDateRange(date, start, end time.Time) bool {
	date = dateutil.Normalize(date)
	return !date.Before(dateutil.Normalize(start)) && !date.After(dateutil.Normalize(end))
}
