package notification

import (
	"context"
)

// Service defines the notification service interface
type Service interface {
	// Queue hands the notification to background workers. It never blocks
	// and reports whether the notification was accepted.
	Queue(ctx context.Context, req CreateNotificationRequest) bool

	// Lifecycle
	Stop()
}
