package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/google/uuid"
)

type employeeRepositoryImpl struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepositoryImpl{s: s}
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var emp employee.Employee
	err := r.s.do(ctx, "employee.get", func(st *state) error {
		found, ok := st.employees[id]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		emp = found
		return nil
	})
	return emp, err
}

// GetByIDForUpdate relies on the store lock held by the transaction.
func (r *employeeRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	return r.GetByID(ctx, id)
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	err := r.s.do(ctx, "employee.create", func(st *state) error {
		if newEmployee.ID == "" {
			newEmployee.ID = uuid.Must(uuid.NewV7()).String()
		}
		now := time.Now()
		newEmployee.CreatedAt = now
		newEmployee.UpdatedAt = now
		st.employees[newEmployee.ID] = newEmployee
		return nil
	})
	return newEmployee, err
}

func (r *employeeRepositoryImpl) UpdateBalance(ctx context.Context, id string, balance int64) error {
	return r.s.do(ctx, "employee.update_balance", func(st *state) error {
		emp, ok := st.employees[id]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		emp.SalaryBalance = balance
		emp.UpdatedAt = time.Now()
		st.employees[id] = emp
		return nil
	})
}
