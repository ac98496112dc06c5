package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func seedEmployee(t *testing.T, ctx context.Context, repo employee.EmployeeRepository) employee.Employee {
	t.Helper()
	emp, err := repo.Create(ctx, employee.Employee{
		ID:                newID(),
		FullName:          "Rina Hartono",
		Roles:             []user.Role{user.RoleEmployee},
		DailyRate:         500,
		CanRequestPayslip: true,
	})
	require.NoError(t, err)
	return emp
}

func TestAttendanceUpsertReturnsPrevious(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	employees := postgresql.NewEmployeeRepository(setup.DB)
	records := postgresql.NewAttendanceRepository(setup.DB)
	emp := seedEmployee(t, ctx, employees)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := attendance.Record{EmployeeID: emp.ID, Date: day, IsPresent: true, CheckedBy: newID(), CheckedAt: time.Now()}

	_, prev, err := records.Upsert(ctx, rec)
	require.NoError(t, err)
	assert.Nil(t, prev)

	rec.IsPresent = false
	saved, prev, err := records.Upsert(ctx, rec)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.True(t, *prev)
	assert.False(t, saved.IsPresent)
	assert.Equal(t, "2024-03-01", saved.Date.Format("2006-01-02"))
}

func TestTxManagerRollsBackBalance(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	employees := postgresql.NewEmployeeRepository(setup.DB)
	emp := seedEmployee(t, ctx, employees)
	tx := postgresql.NewTxManager(setup.DB, 5*time.Second)

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := employees.GetByIDForUpdate(ctx, emp.ID)
		require.NoError(t, err)
		require.NoError(t, employees.UpdateBalance(ctx, locked.ID, 9000))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	reloaded, err := employees.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.SalaryBalance)
}

func TestPayslipLifecycleQueries(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	employees := postgresql.NewEmployeeRepository(setup.DB)
	payslips := postgresql.NewPayslipRepository(setup.DB)
	workItems := postgresql.NewWorkItemRepository(setup.DB)
	emp := seedEmployee(t, ctx, employees)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	p, err := payslips.Create(ctx, payroll.Payslip{
		EmployeeID: emp.ID, PeriodStart: start, PeriodEnd: end, BaseSalary: 1000, NetPay: 1000,
		Status: payroll.PayslipStatusPending,
	})
	require.NoError(t, err)

	_, err = payslips.Create(ctx, payroll.Payslip{EmployeeID: emp.ID, PeriodStart: start, PeriodEnd: end, Status: payroll.PayslipStatusPending})
	assert.ErrorIs(t, err, payroll.ErrPayslipAlreadyExists)

	releasedAt := time.Date(2024, 3, 16, 10, 0, 0, 0, time.UTC)
	require.NoError(t, payslips.MarkReleased(ctx, p.ID, releasedAt, newID()))
	assert.ErrorIs(t, payslips.MarkReleased(ctx, p.ID, releasedAt, newID()), payroll.ErrPayslipNotPending)

	latest, err := payslips.LatestReleased(ctx, emp.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.ReleasedDate.Equal(releasedAt))

	before := time.Date(2024, 3, 16, 12, 0, 0, 0, time.UTC)
	after := time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{after, before} {
		completed := at
		_, err := workItems.Create(ctx, commission.WorkItem{
			ServedBy: emp.ID, ServiceTitle: "Haircut", CommissionValue: 100,
			Status: commission.StatusCompleted, CompletedAt: &completed,
		})
		require.NoError(t, err)
	}

	items, err := workItems.ListCompleted(ctx, emp.ID, commission.NewWindow(latest.ReleasedDate, end.AddDate(0, 0, 15), time.UTC))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].CompletedAt.Equal(before))
}

func TestNotificationBatchJoinsTransaction(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	repo := postgresql.NewNotificationRepository(setup.DB)
	tx := postgresql.NewTxManager(setup.DB, 5*time.Second)
	batch := []*notification.Notification{
		{ID: newID(), Audience: notification.AudienceAdmins, Type: notification.TypePayslipRequestSubmitted, Title: "Submitted", Message: "a", CreatedAt: time.Now()},
		{ID: newID(), Audience: notification.AudienceAdmins, Type: notification.TypePayslipRequestReminder, Title: "Reminder", Message: "b",
			Data: map[string]interface{}{"request_ids": []string{newID()}}, CreatedAt: time.Now()},
	}

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.CreateBatch(ctx, batch))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count := func() int {
		var n int
		require.NoError(t, setup.DB.QueryRow(ctx, "SELECT COUNT(*) FROM notifications").Scan(&n))
		return n
	}
	assert.Zero(t, count(), "rolled back batch must not persist")

	require.NoError(t, repo.CreateBatch(ctx, batch))
	assert.Equal(t, 2, count())
}
