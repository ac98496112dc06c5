package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, user_id, full_name, roles, daily_rate, salary_balance, can_request_payslip, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var roles []string
	err := row.Scan(&e.ID, &e.UserID, &e.FullName, &roles, &e.DailyRate, &e.SalaryBalance,
		&e.CanRequestPayslip, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return employee.Employee{}, err
	}
	e.Roles = make([]user.Role, len(roles))
	for i, r := range roles {
		e.Roles[i] = user.Role(r)
	}
	return e, nil
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, apperror.Persistence("get employee", err)
	}
	return e, nil
}

func (r *employeeRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 FOR UPDATE`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, apperror.Persistence("lock employee", err)
	}
	return e, nil
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployee.ID == "" {
		newEmployee.ID = uuid.Must(uuid.NewV7()).String()
	}
	roles := make([]string, len(newEmployee.Roles))
	for i, role := range newEmployee.Roles {
		roles[i] = string(role)
	}

	query := `
		INSERT INTO employees (id, user_id, full_name, roles, daily_rate, salary_balance, can_request_payslip)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + employeeColumns

	e, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.UserID, newEmployee.FullName, roles,
		newEmployee.DailyRate, newEmployee.SalaryBalance, newEmployee.CanRequestPayslip,
	))
	if err != nil {
		return employee.Employee{}, apperror.Persistence("create employee", err)
	}
	return e, nil
}

func (r *employeeRepositoryImpl) UpdateBalance(ctx context.Context, id string, balance int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET salary_balance = $2, updated_at = NOW() WHERE id = $1`, id, balance)
	if err != nil {
		return apperror.Persistence("update salary balance", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
