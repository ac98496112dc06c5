package postgresql

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
)

type workItemRepositoryImpl struct {
	db *database.DB
}

func NewWorkItemRepository(db *database.DB) commission.WorkItemRepository {
	return &workItemRepositoryImpl{db: db}
}

func (r *workItemRepositoryImpl) ListCompleted(ctx context.Context, employeeID string, window commission.Window) ([]commission.WorkItem, error) {
	q := GetQuerier(ctx, r.db)

	// $3 is NULL when no payslip has been released yet.
	query := `
		SELECT id, served_by, service_title, customer_name, commission_value, status, completed_at, created_at
		FROM work_items
		WHERE served_by = $1
		  AND status = $2
		  AND completed_at IS NOT NULL
		  AND ($3::timestamptz IS NULL OR completed_at > $3::timestamptz)
		  AND completed_at < $4
		ORDER BY completed_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, commission.StatusCompleted, window.After, window.Before)
	if err != nil {
		return nil, apperror.Persistence("list completed work items", err)
	}
	defer rows.Close()

	items := []commission.WorkItem{}
	for rows.Next() {
		var item commission.WorkItem
		if err := rows.Scan(
			&item.ID, &item.ServedBy, &item.ServiceTitle, &item.CustomerName,
			&item.CommissionValue, &item.Status, &item.CompletedAt, &item.CreatedAt,
		); err != nil {
			return nil, apperror.Persistence("scan work item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Persistence("iterate work items", err)
	}
	return items, nil
}

func (r *workItemRepositoryImpl) Create(ctx context.Context, item commission.WorkItem) (commission.WorkItem, error) {
	q := GetQuerier(ctx, r.db)

	if item.ID == "" {
		item.ID = uuid.Must(uuid.NewV7()).String()
	}

	err := q.QueryRow(ctx, `
		INSERT INTO work_items (id, served_by, service_title, customer_name, commission_value, status, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, item.ID, item.ServedBy, item.ServiceTitle, item.CustomerName, item.CommissionValue, item.Status, item.CompletedAt,
	).Scan(&item.CreatedAt)
	if err != nil {
		return commission.WorkItem{}, apperror.Persistence("create work item", err)
	}
	return item, nil
}
