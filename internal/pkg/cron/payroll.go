package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
)

// TokenPruner drops revocation entries for tokens that have expired anyway.
type TokenPruner interface {
	PruneRevoked(now time.Time) int
}

// NewPendingRequestReminderJob alerts administrators about payslip requests
// left PENDING for longer than olderThan.
func NewPendingRequestReminderJob(
	requests payroll.PayslipRequestRepository,
	notifier notification.Service,
	interval, olderThan time.Duration,
	now func() time.Time,
) Job {
	return Job{
		Name:     "pending-payslip-request-reminder",
		Interval: interval,
		Fn: func(ctx context.Context) error {
			status := string(payroll.RequestStatusPending)
			pending, err := requests.List(ctx, payroll.RequestFilter{Status: &status})
			if err != nil {
				return fmt.Errorf("list pending requests: %w", err)
			}

			cutoff := now().Add(-olderThan)
			var stale []string
			for _, req := range pending {
				if req.RequestedAt.Before(cutoff) {
					stale = append(stale, req.ID)
				}
			}
			if len(stale) == 0 {
				return nil
			}

			notifier.Queue(ctx, notification.CreateNotificationRequest{
				Audience: notification.AudienceAdmins,
				Type:     notification.TypePayslipRequestReminder,
				Title:    "Payslip requests awaiting review",
				Message:  fmt.Sprintf("%d payslip request(s) have been pending for more than %s", len(stale), olderThan),
				Data: map[string]interface{}{
					"request_ids": stale,
				},
			})
			return nil
		},
	}
}

func NewRevokedTokenPruneJob(pruner TokenPruner, interval time.Duration) Job {
	return Job{
		Name:     "prune-revoked-tokens",
		Interval: interval,
		Fn: func(ctx context.Context) error {
			pruner.PruneRevoked(time.Now())
			return nil
		},
	}
}
