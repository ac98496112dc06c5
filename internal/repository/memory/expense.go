package memory

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/expense"
	"github.com/google/uuid"
)

type expenseRepositoryImpl struct {
	s *Store
}

func NewExpenseRepository(s *Store) expense.ExpenseRepository {
	return &expenseRepositoryImpl{s: s}
}

func (r *expenseRepositoryImpl) Create(ctx context.Context, entry expense.Entry) (expense.Entry, error) {
	err := r.s.do(ctx, "expense.create", func(st *state) error {
		if entry.ID == "" {
			entry.ID = uuid.Must(uuid.NewV7()).String()
		}
		st.expenses = append(st.expenses, entry)
		return nil
	})
	return entry, err
}
