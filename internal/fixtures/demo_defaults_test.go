package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedSkipsCommissionForOwners(t *testing.T) {
	store := memory.NewStore(time.Second)
	employees := memory.NewEmployeeRepository(store)
	workItems := memory.NewWorkItemRepository(store)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	ids, err := Seed(context.Background(), employees, workItems, now)
	require.NoError(t, err)

	require.Len(t, ids.EmployeeIDs, len(GetDefaultEmployees()))
	// Three payroll-eligible employees with three services each
	assert.Len(t, ids.WorkItemIDs, 9)

	owner, err := employees.GetByID(context.Background(), ids.EmployeeIDs["Dewi Owner"])
	require.NoError(t, err)
	assert.False(t, owner.IsPayrollEligible())

	ownerItems, err := workItems.ListCompleted(context.Background(), owner.ID, commission.Window{Before: now})
	require.NoError(t, err)
	assert.Empty(t, ownerItems)

	stylistItems, err := workItems.ListCompleted(context.Background(), ids.EmployeeIDs["Budi Stylist"], commission.Window{Before: now})
	require.NoError(t, err)
	assert.Len(t, stylistItems, 3)
}
