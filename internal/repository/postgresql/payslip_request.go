package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type payslipRequestRepository struct {
	db *database.DB
}

func NewPayslipRequestRepository(db *database.DB) payroll.PayslipRequestRepository {
	return &payslipRequestRepository{db: db}
}

const requestColumns = `
	r.id, r.employee_id, r.requested_at, r.period_start, r.period_end, r.status,
	r.notes, r.payslip_id, r.processed_by, r.processed_at, r.created_at, r.updated_at, e.full_name`

func scanRequest(row pgx.Row) (payroll.PayslipRequest, error) {
	var r payroll.PayslipRequest
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.RequestedAt, &r.PeriodStart, &r.PeriodEnd, &r.Status,
		&r.Notes, &r.PayslipID, &r.ProcessedBy, &r.ProcessedAt, &r.CreatedAt, &r.UpdatedAt, &r.EmployeeName,
	)
	return r, err
}

func (repo *payslipRequestRepository) Create(ctx context.Context, r payroll.PayslipRequest) (payroll.PayslipRequest, error) {
	q := GetQuerier(ctx, repo.db)

	if r.ID == "" {
		r.ID = uuid.Must(uuid.NewV7()).String()
	}

	err := q.QueryRow(ctx, `
		INSERT INTO payslip_requests (id, employee_id, requested_at, period_start, period_end, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, r.ID, r.EmployeeID, r.RequestedAt, r.PeriodStart, r.PeriodEnd, r.Status, r.Notes,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "uq_payslip_requests_pending_window") {
			return payroll.PayslipRequest{}, payroll.ErrDuplicatePendingRequest
		}
		return payroll.PayslipRequest{}, apperror.Persistence("create payslip request", err)
	}
	return r, nil
}

func (repo *payslipRequestRepository) GetByID(ctx context.Context, id string) (payroll.PayslipRequest, error) {
	return repo.get(ctx, id, "")
}

func (repo *payslipRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (payroll.PayslipRequest, error) {
	return repo.get(ctx, id, " FOR UPDATE OF r")
}

func (repo *payslipRequestRepository) get(ctx context.Context, id, lock string) (payroll.PayslipRequest, error) {
	q := GetQuerier(ctx, repo.db)

	query := `SELECT ` + requestColumns + `
		FROM payslip_requests r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.id = $1` + lock

	r, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayslipRequest{}, payroll.ErrRequestNotFound
		}
		return payroll.PayslipRequest{}, apperror.Persistence("get payslip request", err)
	}
	return r, nil
}

func (repo *payslipRequestRepository) ExistsPending(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (bool, error) {
	q := GetQuerier(ctx, repo.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM payslip_requests
			WHERE employee_id = $1 AND period_start = $2 AND period_end = $3 AND status = $4
		)
	`, employeeID, periodStart, periodEnd, payroll.RequestStatusPending).Scan(&exists)
	if err != nil {
		return false, apperror.Persistence("check pending request", err)
	}
	return exists, nil
}

func (repo *payslipRequestRepository) List(ctx context.Context, filter payroll.RequestFilter) ([]payroll.PayslipRequest, error) {
	q := GetQuerier(ctx, repo.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("r.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
	}

	query := `SELECT ` + requestColumns + `
		FROM payslip_requests r
		JOIN employees e ON e.id = r.employee_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.requested_at DESC, r.id DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.Persistence("list payslip requests", err)
	}
	defer rows.Close()

	requests := []payroll.PayslipRequest{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, apperror.Persistence("scan payslip request", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Persistence("iterate payslip requests", err)
	}
	return requests, nil
}

func (repo *payslipRequestRepository) UpdateStatus(ctx context.Context, r payroll.PayslipRequest) error {
	q := GetQuerier(ctx, repo.db)

	tag, err := q.Exec(ctx, `
		UPDATE payslip_requests
		SET status = $2, notes = $3, payslip_id = $4, processed_by = $5, processed_at = $6, updated_at = NOW()
		WHERE id = $1 AND status = $7
	`, r.ID, r.Status, r.Notes, r.PayslipID, r.ProcessedBy, r.ProcessedAt, payroll.RequestStatusPending)
	if err != nil {
		return apperror.Persistence("update payslip request status", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payslip_requests WHERE id = $1)`, r.ID).Scan(&exists); err != nil {
			return apperror.Persistence("check payslip request", err)
		}
		if !exists {
			return payroll.ErrRequestNotFound
		}
		return payroll.ErrRequestNotPending
	}
	return nil
}
