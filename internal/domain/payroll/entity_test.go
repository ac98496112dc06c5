package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayslipReleaseOnce(t *testing.T) {
	p := Payslip{Status: PayslipStatusPending}
	at := time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)

	require.NoError(t, p.Release(at, "admin-1"))
	assert.Equal(t, PayslipStatusReleased, p.Status)
	assert.Equal(t, at, *p.ReleasedDate)
	assert.Equal(t, "admin-1", *p.ReleasedBy)

	err := p.Release(at.Add(time.Hour), "admin-2")
	assert.ErrorIs(t, err, ErrPayslipNotPending)
	assert.ErrorIs(t, err, apperror.ErrStateConflict)
	assert.Equal(t, at, *p.ReleasedDate)
}

func TestPayslipAdjustRecomputesNetPay(t *testing.T) {
	p := Payslip{Status: PayslipStatusPending, BaseSalary: 1000, TotalCommissions: 250}
	p.ComputeNetPay()
	assert.Equal(t, int64(1250), p.NetPay)

	bonus, deduction := int64(100), int64(40)
	require.NoError(t, p.Adjust(&bonus, &deduction, nil))
	assert.Equal(t, int64(1310), p.NetPay)

	p.Status = PayslipStatusReleased
	assert.ErrorIs(t, p.Adjust(&bonus, nil, nil), ErrPayslipAlreadyReleased)
}

func TestPayslipRequestTransitions(t *testing.T) {
	at := time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)

	r := PayslipRequest{Status: RequestStatusPending}
	require.NoError(t, r.MarkRejected("admin-1", "duplicate", at))
	assert.Equal(t, RequestStatusRejected, r.Status)
	assert.Equal(t, "duplicate", *r.Notes)
	assert.True(t, r.Status.IsTerminal())

	assert.ErrorIs(t, r.MarkRejected("admin-1", "again", at), ErrRequestNotPending)
	assert.ErrorIs(t, r.MarkProcessed("p-1", "admin-1", at), ErrRequestNotPending)
	assert.Equal(t, "duplicate", *r.Notes)

	r = PayslipRequest{Status: RequestStatusPending}
	require.NoError(t, r.MarkProcessed("p-1", "admin-1", at))
	assert.Equal(t, "p-1", *r.PayslipID)

	r = PayslipRequest{Status: RequestStatusPending}
	require.NoError(t, r.MarkFailed("admin-1", "boom", at))
	assert.Equal(t, RequestStatusFailed, r.Status)
	assert.False(t, RequestStatus("DONE").IsValid())
}

func TestPayslipFilterPaging(t *testing.T) {
	f := PayslipFilter{}
	require.NoError(t, f.Validate())
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPageLimit, f.Limit)
	assert.Equal(t, 0, f.Offset())

	f = PayslipFilter{Page: 3, Limit: 10}
	assert.Equal(t, 20, f.Offset())

	f = PayslipFilter{Limit: 500}
	assert.ErrorIs(t, f.Validate(), apperror.ErrValidation)

	status := "PAID"
	f = PayslipFilter{Status: &status}
	assert.Error(t, f.Validate())
}

func TestAdjustPayslipRequestValidate(t *testing.T) {
	neg := int64(-5)
	r := AdjustPayslipRequest{ID: "p-1", TotalDeductions: &neg}
	assert.ErrorContains(t, r.Validate(), "total_deductions")

	r = AdjustPayslipRequest{ID: "p-1"}
	assert.Error(t, r.Validate())

	pos := int64(5)
	r = AdjustPayslipRequest{ID: "p-1", TotalBonuses: &pos}
	assert.NoError(t, r.Validate())
}
