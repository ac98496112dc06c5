package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/expense"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestWithinTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Second)
	store.AddEmployee(employee.Employee{ID: "e1", DailyRate: 500, SalaryBalance: 100})
	employees := NewEmployeeRepository(store)
	records := NewAttendanceRepository(store)

	boom := errors.New("boom")
	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, employees.UpdateBalance(ctx, "e1", 600))
		_, _, err := records.Upsert(ctx, attendance.Record{EmployeeID: "e1", Date: day(1), IsPresent: true})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	emp, err := employees.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), emp.SalaryBalance)

	list, err := records.ListByEmployee(ctx, "e1", day(1), day(31))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWithinTransactionTimeoutDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore(10 * time.Millisecond)
	store.AddEmployee(employee.Employee{ID: "e1"})
	employees := NewEmployeeRepository(store)

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := employees.UpdateBalance(ctx, "e1", 900); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	emp, err := employees.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Zero(t, emp.SalaryBalance)
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Second)
	store.AddEmployee(employee.Employee{ID: "e1"})
	employees := NewEmployeeRepository(store)

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		return store.WithinTransaction(ctx, func(ctx context.Context) error {
			return employees.UpdateBalance(ctx, "e1", 42)
		})
	})
	require.NoError(t, err)

	emp, _ := employees.GetByID(ctx, "e1")
	assert.Equal(t, int64(42), emp.SalaryBalance)
}

func TestFailOnReturnsPersistenceError(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Second)
	expenses := NewExpenseRepository(store)

	store.FailOn("expense.create", errors.New("disk full"))
	_, err := expenses.Create(ctx, expenseEntry())
	assert.ErrorIs(t, err, apperror.ErrPersistence)

	store.FailOn("expense.create", nil)
	_, err = expenses.Create(ctx, expenseEntry())
	assert.NoError(t, err)
	assert.Len(t, store.Expenses(), 1)
}

func TestUpsertReportsPreviousPresence(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Second)
	records := NewAttendanceRepository(store)

	first, prev, err := records.Upsert(ctx, attendance.Record{EmployeeID: "e1", Date: day(2), IsPresent: true})
	require.NoError(t, err)
	assert.Nil(t, prev)

	second, prev, err := records.Upsert(ctx, attendance.Record{EmployeeID: "e1", Date: day(2), IsPresent: false})
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.True(t, *prev)
	assert.Equal(t, first.ID, second.ID)

	count, err := records.CountPresent(ctx, "e1", day(1), day(31))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPayslipUniquenessAndLatestReleased(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Second)
	payslips := NewPayslipRepository(store)

	first, err := payslips.Create(ctx, payroll.Payslip{EmployeeID: "e1", PeriodStart: day(1), PeriodEnd: day(15), Status: payroll.PayslipStatusPending})
	require.NoError(t, err)

	_, err = payslips.Create(ctx, payroll.Payslip{EmployeeID: "e1", PeriodStart: day(1), PeriodEnd: day(15), Status: payroll.PayslipStatusPending})
	assert.ErrorIs(t, err, payroll.ErrPayslipAlreadyExists)

	require.NoError(t, payslips.MarkReleased(ctx, first.ID, day(16), "admin"))
	assert.ErrorIs(t, payslips.MarkReleased(ctx, first.ID, day(17), "admin"), payroll.ErrPayslipNotPending)

	latest, err := payslips.LatestReleased(ctx, "e1", nil)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, first.ID, latest.ID)

	before := day(15)
	latest, err = payslips.LatestReleased(ctx, "e1", &before)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func expenseEntry() expense.Entry {
	return expense.Entry{Category: expense.CategorySalary, Amount: 1000, RecordedBy: "admin"}
}
