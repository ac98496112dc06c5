package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/commission"
	"github.com/google/uuid"
)

type workItemRepositoryImpl struct {
	s *Store
}

func NewWorkItemRepository(s *Store) commission.WorkItemRepository {
	return &workItemRepositoryImpl{s: s}
}

func (r *workItemRepositoryImpl) ListCompleted(ctx context.Context, employeeID string, window commission.Window) ([]commission.WorkItem, error) {
	items := []commission.WorkItem{}
	err := r.s.do(ctx, "work_item.list_completed", func(st *state) error {
		for _, item := range st.workItems {
			if item.ServedBy != employeeID || item.Status != commission.StatusCompleted || item.CompletedAt == nil {
				continue
			}
			if window.Contains(*item.CompletedAt) {
				items = append(items, item)
			}
		}
		return nil
	})
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CompletedAt.Equal(*items[j].CompletedAt) {
			return items[i].CompletedAt.Before(*items[j].CompletedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, err
}

func (r *workItemRepositoryImpl) Create(ctx context.Context, item commission.WorkItem) (commission.WorkItem, error) {
	err := r.s.do(ctx, "work_item.create", func(st *state) error {
		if item.ID == "" {
			item.ID = uuid.Must(uuid.NewV7()).String()
		}
		item.CreatedAt = time.Now()
		st.workItems[item.ID] = item
		return nil
	})
	return item, err
}
