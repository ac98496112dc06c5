package cron

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsJobsUntilStopped(t *testing.T) {
	s := NewScheduler(nil)

	var runs atomic.Int32
	s.AddJob(Job{Name: "tick", Interval: 5 * time.Millisecond, Fn: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}})
	s.Start()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestRunOnceContinuesAfterFailure(t *testing.T) {
	s := NewScheduler(nil)

	var order []string
	s.AddJob(Job{Name: "fails", Interval: time.Hour, Fn: func(ctx context.Context) error {
		order = append(order, "fails")
		return errors.New("boom")
	}})
	s.AddJob(Job{Name: "succeeds", Interval: time.Hour, Fn: func(ctx context.Context) error {
		order = append(order, "succeeds")
		return nil
	}})

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"fails", "succeeds"}, order)
}

type stubRequests struct {
	payroll.PayslipRequestRepository
	pending []payroll.PayslipRequest
	err     error
}

func (s *stubRequests) List(ctx context.Context, filter payroll.RequestFilter) ([]payroll.PayslipRequest, error) {
	return s.pending, s.err
}

type captureNotifier struct {
	mu    sync.Mutex
	items []notification.CreateNotificationRequest
}

func (c *captureNotifier) Queue(_ context.Context, req notification.CreateNotificationRequest) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, req)
	return true
}

func (c *captureNotifier) Stop() {}

func TestPendingRequestReminderJob(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	requests := &stubRequests{pending: []payroll.PayslipRequest{
		{ID: "old", Status: payroll.RequestStatusPending, RequestedAt: now.Add(-48 * time.Hour)},
		{ID: "fresh", Status: payroll.RequestStatusPending, RequestedAt: now.Add(-time.Hour)},
	}}
	notifier := &captureNotifier{}

	job := NewPendingRequestReminderJob(requests, notifier, time.Hour, 24*time.Hour, func() time.Time { return now })
	require.NoError(t, job.Fn(context.Background()))

	require.Len(t, notifier.items, 1)
	alert := notifier.items[0]
	assert.Equal(t, notification.AudienceAdmins, alert.Audience)
	assert.Equal(t, notification.TypePayslipRequestReminder, alert.Type)
	assert.Equal(t, []string{"old"}, alert.Data["request_ids"])
}

func TestPendingRequestReminderJobStaysQuiet(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	notifier := &captureNotifier{}

	job := NewPendingRequestReminderJob(&stubRequests{}, notifier, time.Hour, 24*time.Hour, func() time.Time { return now })
	require.NoError(t, job.Fn(context.Background()))
	assert.Empty(t, notifier.items)

	failing := NewPendingRequestReminderJob(&stubRequests{err: errors.New("db down")}, notifier, time.Hour, 24*time.Hour, func() time.Time { return now })
	assert.Error(t, failing.Fn(context.Background()))
}

type countingPruner struct{ calls int }

func (c *countingPruner) PruneRevoked(now time.Time) int {
	c.calls++
	return 0
}

func TestRevokedTokenPruneJob(t *testing.T) {
	pruner := &countingPruner{}
	job := NewRevokedTokenPruneJob(pruner, time.Hour)

	require.NoError(t, job.Fn(context.Background()))
	assert.Equal(t, 1, pruner.calls)
}
