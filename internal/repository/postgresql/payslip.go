package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type payslipRepository struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payroll.PayslipRepository {
	return &payslipRepository{db: db}
}

const payslipColumns = `
	p.id, p.employee_id, p.request_id, p.period_start, p.period_end, p.present_days,
	p.daily_rate, p.base_salary, p.total_commissions, p.total_bonuses, p.total_deductions,
	p.net_pay, p.commission_lines, p.notes, p.status, p.released_date, p.released_by,
	p.created_at, p.updated_at, e.full_name`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var p payroll.Payslip
	var lines []byte
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.RequestID, &p.PeriodStart, &p.PeriodEnd, &p.PresentDays,
		&p.DailyRate, &p.BaseSalary, &p.TotalCommissions, &p.TotalBonuses, &p.TotalDeductions,
		&p.NetPay, &lines, &p.Notes, &p.Status, &p.ReleasedDate, &p.ReleasedBy,
		&p.CreatedAt, &p.UpdatedAt, &p.EmployeeName,
	)
	if err != nil {
		return payroll.Payslip{}, err
	}
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &p.CommissionLines); err != nil {
			return payroll.Payslip{}, fmt.Errorf("decode commission lines: %w", err)
		}
	}
	return p, nil
}

// ========== WRITES ==========

func (r *payslipRepository) Create(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		p.ID = uuid.Must(uuid.NewV7()).String()
	}
	if p.CommissionLines == nil {
		p.CommissionLines = []commission.Line{}
	}
	lines, err := json.Marshal(p.CommissionLines)
	if err != nil {
		return payroll.Payslip{}, apperror.Persistence("encode commission lines", err)
	}

	query := `
		INSERT INTO payslips (
			id, employee_id, request_id, period_start, period_end, present_days,
			daily_rate, base_salary, total_commissions, total_bonuses, total_deductions,
			net_pay, commission_lines, notes, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`
	err = q.QueryRow(ctx, query,
		p.ID, p.EmployeeID, p.RequestID, p.PeriodStart, p.PeriodEnd, p.PresentDays,
		p.DailyRate, p.BaseSalary, p.TotalCommissions, p.TotalBonuses, p.TotalDeductions,
		p.NetPay, lines, p.Notes, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "uq_payslips_employee_period") {
			return payroll.Payslip{}, payroll.ErrPayslipAlreadyExists
		}
		return payroll.Payslip{}, apperror.Persistence("create payslip", err)
	}
	return p, nil
}

func (r *payslipRepository) MarkReleased(ctx context.Context, id string, releasedAt time.Time, releasedBy string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payslips
		SET status = $2, released_date = $3, released_by = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5
	`, id, payroll.PayslipStatusReleased, releasedAt, releasedBy, payroll.PayslipStatusPending)
	if err != nil {
		return apperror.Persistence("release payslip", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrNotPending(ctx, id)
	}
	return nil
}

func (r *payslipRepository) UpdateAdjustments(ctx context.Context, p payroll.Payslip) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payslips
		SET total_bonuses = $2, total_deductions = $3, net_pay = $4, notes = $5, updated_at = NOW()
		WHERE id = $1 AND status = $6
	`, p.ID, p.TotalBonuses, p.TotalDeductions, p.NetPay, p.Notes, payroll.PayslipStatusPending)
	if err != nil {
		return apperror.Persistence("adjust payslip", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrNotPending(ctx, p.ID)
	}
	return nil
}

func (r *payslipRepository) missingOrNotPending(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payslips WHERE id = $1)`, id).Scan(&exists); err != nil {
		return apperror.Persistence("check payslip", err)
	}
	if !exists {
		return payroll.ErrPayslipNotFound
	}
	return payroll.ErrPayslipNotPending
}

// ========== READS ==========

func (r *payslipRepository) GetByID(ctx context.Context, id string) (payroll.Payslip, error) {
	return r.get(ctx, id, "")
}

func (r *payslipRepository) GetByIDForUpdate(ctx context.Context, id string) (payroll.Payslip, error) {
	return r.get(ctx, id, " FOR UPDATE OF p")
}

func (r *payslipRepository) get(ctx context.Context, id, lock string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + `
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1` + lock

	p, err := scanPayslip(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, apperror.Persistence("get payslip", err)
	}
	return p, nil
}

func (r *payslipRepository) LatestReleased(ctx context.Context, employeeID string, endingBefore *time.Time) (*payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payslipColumns + `
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.employee_id = $1
		  AND p.status = $2
		  AND ($3::date IS NULL OR p.period_end < $3::date)
		ORDER BY p.period_end DESC
		LIMIT 1`

	p, err := scanPayslip(q.QueryRow(ctx, query, employeeID, payroll.PayslipStatusReleased, endingBefore))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Persistence("get latest released payslip", err)
	}
	return &p, nil
}

func (r *payslipRepository) HasPending(ctx context.Context, employeeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM payslips WHERE employee_id = $1 AND status = $2)
	`, employeeID, payroll.PayslipStatusPending).Scan(&exists)
	if err != nil {
		return false, apperror.Persistence("check pending payslip", err)
	}
	return exists, nil
}

func (r *payslipRepository) List(ctx context.Context, filter payroll.PayslipFilter) ([]payroll.Payslip, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM payslips p ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperror.Persistence("count payslips", err)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		%s
		ORDER BY p.period_end DESC, p.created_at DESC
		LIMIT $%d OFFSET $%d`, payslipColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperror.Persistence("list payslips", err)
	}
	defer rows.Close()

	payslips := []payroll.Payslip{}
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, 0, apperror.Persistence("scan payslip", err)
		}
		payslips = append(payslips, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.Persistence("iterate payslips", err)
	}
	return payslips, total, nil
}
