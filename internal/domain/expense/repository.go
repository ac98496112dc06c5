package expense

import "context"

// ExpenseRepository is the write-only audit sink.
type ExpenseRepository interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
}
