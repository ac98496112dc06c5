package postgresql

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/expense"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
)

type expenseRepositoryImpl struct {
	db *database.DB
}

func NewExpenseRepository(db *database.DB) expense.ExpenseRepository {
	return &expenseRepositoryImpl{db: db}
}

func (r *expenseRepositoryImpl) Create(ctx context.Context, entry expense.Entry) (expense.Entry, error) {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		entry.ID = uuid.Must(uuid.NewV7()).String()
	}

	query := `
		INSERT INTO expense_entries (id, category, amount, description, employee_id, reference_type, reference_id, recorded_by, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := q.Exec(ctx, query,
		entry.ID, entry.Category, entry.Amount, entry.Description, entry.EmployeeID,
		entry.ReferenceType, entry.ReferenceID, entry.RecordedBy, entry.RecordedAt,
	)
	if err != nil {
		return expense.Entry{}, apperror.Persistence("create expense entry", err)
	}
	return entry, nil
}
