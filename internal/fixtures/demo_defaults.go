package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
)

// ==========================================
// SEEDED DATA RESULT
// ==========================================

// SeededDataIDs holds IDs of seeded demo data
type SeededDataIDs struct {
	// Employee IDs by full name
	EmployeeIDs map[string]string

	WorkItemIDs []string
}

func NewSeededDataIDs() *SeededDataIDs {
	return &SeededDataIDs{
		EmployeeIDs: make(map[string]string),
	}
}

// ==========================================
// DEFAULT STAFF
// ==========================================

// GetDefaultEmployees returns a small salon floor: one owner, one manager and
// two stylists with different daily rates.
func GetDefaultEmployees() []employee.Employee {
	return []employee.Employee{
		{FullName: "Dewi Owner", Roles: []user.Role{user.RoleOwner}},
		{FullName: "Rina Manager", Roles: []user.Role{user.RoleManager}, DailyRate: 150000, CanRequestPayslip: true},
		{FullName: "Budi Stylist", Roles: []user.Role{user.RoleEmployee}, DailyRate: 120000, CanRequestPayslip: true},
		{FullName: "Sari Stylist", Roles: []user.Role{user.RoleEmployee}, DailyRate: 100000, CanRequestPayslip: false},
	}
}

// ==========================================
// DEFAULT WORK ITEMS
// ==========================================

// GetDefaultWorkItems returns completed services for a stylist, spread over
// the days before now.
func GetDefaultWorkItems(servedBy string, now time.Time) []commission.WorkItem {
	services := []struct {
		title    string
		customer string
		value    int64
		daysAgo  int
	}{
		{"Haircut", "Ayu", 15000, 3},
		{"Hair Coloring", "Maya", 45000, 2},
		{"Creambath", "Putri", 20000, 1},
	}

	items := make([]commission.WorkItem, 0, len(services))
	for _, s := range services {
		completedAt := now.AddDate(0, 0, -s.daysAgo)
		items = append(items, commission.WorkItem{
			ServedBy:        servedBy,
			ServiceTitle:    s.title,
			CustomerName:    s.customer,
			CommissionValue: s.value,
			Status:          commission.StatusCompleted,
			CompletedAt:     &completedAt,
			CreatedAt:       completedAt,
		})
	}
	return items
}

// Seed inserts the demo staff and work items.
func Seed(ctx context.Context, employees employee.EmployeeRepository, workItems commission.WorkItemRepository, now time.Time) (*SeededDataIDs, error) {
	ids := NewSeededDataIDs()

	for _, e := range GetDefaultEmployees() {
		e.CreatedAt = now
		e.UpdatedAt = now
		created, err := employees.Create(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("seed employee %s: %w", e.FullName, err)
		}
		ids.EmployeeIDs[created.FullName] = created.ID

		if !created.IsPayrollEligible() {
			continue
		}
		for _, item := range GetDefaultWorkItems(created.ID, now) {
			createdItem, err := workItems.Create(ctx, item)
			if err != nil {
				return nil, fmt.Errorf("seed work item for %s: %w", created.FullName, err)
			}
			ids.WorkItemIDs = append(ids.WorkItemIDs, createdItem.ID)
		}
	}

	return ids, nil
}
