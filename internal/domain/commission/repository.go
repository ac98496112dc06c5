package commission

import "context"

type WorkItemRepository interface {
	// ListCompleted returns completed items served by the employee whose
	// completion instant lies in the window, ordered by completion.
	ListCompleted(ctx context.Context, employeeID string, window Window) ([]WorkItem, error)
	Create(ctx context.Context, item WorkItem) (WorkItem, error)
}
