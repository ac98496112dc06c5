package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Upsert reads the replaced presence through a CTE so the previous value and
// the write come from one statement. Callers serialize writers of the same
// employee by locking the employee row first.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, record attendance.Record) (attendance.Record, *bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH previous AS (
			SELECT is_present FROM attendance_records
			WHERE employee_id = $2 AND date = $3
		)
		INSERT INTO attendance_records (id, employee_id, date, is_present, checked_by, checked_at, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			is_present = EXCLUDED.is_present,
			checked_by = EXCLUDED.checked_by,
			checked_at = EXCLUDED.checked_at,
			note = EXCLUDED.note,
			updated_at = NOW()
		RETURNING id, employee_id, date, is_present, checked_by, checked_at, note, created_at, updated_at,
			(SELECT is_present FROM previous)
	`

	var saved attendance.Record
	var previous *bool
	err := q.QueryRow(ctx, query,
		uuid.Must(uuid.NewV7()).String(), record.EmployeeID, record.Date, record.IsPresent,
		record.CheckedBy, record.CheckedAt, record.Note,
	).Scan(
		&saved.ID, &saved.EmployeeID, &saved.Date, &saved.IsPresent, &saved.CheckedBy,
		&saved.CheckedAt, &saved.Note, &saved.CreatedAt, &saved.UpdatedAt, &previous,
	)
	if err != nil {
		return attendance.Record{}, nil, apperror.Persistence("upsert attendance", err)
	}
	return saved, previous, nil
}

func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, is_present, checked_by, checked_at, note, created_at, updated_at
		FROM attendance_records
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, apperror.Persistence("list attendance", err)
	}
	defer rows.Close()

	records := []attendance.Record{}
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.Date, &rec.IsPresent, &rec.CheckedBy,
			&rec.CheckedAt, &rec.Note, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, apperror.Persistence("scan attendance", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Persistence("iterate attendance", err)
	}
	return records, nil
}

func (r *attendanceRepositoryImpl) CountPresent(ctx context.Context, employeeID string, start, end time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM attendance_records
		WHERE employee_id = $1 AND is_present AND date BETWEEN $2 AND $3
	`, employeeID, start, end).Scan(&count)
	if err != nil {
		return 0, apperror.Persistence("count present days", err)
	}
	return count, nil
}
