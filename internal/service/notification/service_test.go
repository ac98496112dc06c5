package notification

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *mockRepository) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}

func TestQueuePersistsOnStop(t *testing.T) {
	repo := new(mockRepository)
	repo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(ns []*notification.Notification) bool {
		return len(ns) == 2 &&
			ns[0].Type == notification.TypePayslipReleased &&
			ns[1].Audience == notification.AudienceAdmins &&
			ns[0].ID != ""
	})).Return(nil).Once()

	svc := NewNotificationService(repo, nil, slog.Default(), Config{
		BatchSize:     10,
		FlushInterval: time.Hour,
		WorkerCount:   1,
		QueueSize:     10,
	})

	empID := "emp-1"
	assert.True(t, svc.Queue(context.Background(), notification.CreateNotificationRequest{
		RecipientID: &empID,
		Audience:    notification.AudienceEmployee,
		Type:        notification.TypePayslipReleased,
		Title:       "Payslip released",
	}))
	assert.True(t, svc.Queue(context.Background(), notification.CreateNotificationRequest{
		Audience: notification.AudienceAdmins,
		Type:     notification.TypePayslipRequestSubmitted,
		Title:    "New payslip request",
	}))

	svc.Stop()
	repo.AssertExpectations(t)

	assert.False(t, svc.Queue(context.Background(), notification.CreateNotificationRequest{Type: notification.TypePayslipReleased}))
}

func TestPersistFailureIsSwallowed(t *testing.T) {
	repo := new(mockRepository)
	repo.On("CreateBatch", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	svc := NewNotificationService(repo, nil, slog.Default(), Config{BatchSize: 1, FlushInterval: time.Hour, WorkerCount: 1, QueueSize: 1})
	assert.True(t, svc.Queue(context.Background(), notification.CreateNotificationRequest{Type: notification.TypePayslipRequestFailed}))

	assert.NotPanics(t, svc.Stop)
	repo.AssertExpectations(t)
}

func TestQueueFullDropsWithoutBlocking(t *testing.T) {
	// No workers: nothing drains the queue.
	s := &service{
		logger: slog.Default(),
		queue:  make(chan notification.CreateNotificationRequest, 1),
		stopCh: make(chan struct{}),
	}

	assert.True(t, s.Queue(context.Background(), notification.CreateNotificationRequest{Type: notification.TypePayslipReleased}))

	done := make(chan bool)
	go func() {
		done <- s.Queue(context.Background(), notification.CreateNotificationRequest{Type: notification.TypePayslipReleased})
	}()

	select {
	case accepted := <-done:
		assert.False(t, accepted)
	case <-time.After(time.Second):
		t.Fatal("Queue blocked on a full queue")
	}
}

func TestQueuedNotificationsArePushedToSubscribers(t *testing.T) {
	repo := new(mockRepository)
	repo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

	hub := sse.NewHub(4)
	adminEvents, cleanupAdmins := hub.Subscribe(sse.ChannelAdmins)
	defer cleanupAdmins()
	employeeEvents, cleanupEmployee := hub.Subscribe("emp-1")
	defer cleanupEmployee()

	svc := NewNotificationService(repo, hub, slog.Default(), Config{
		BatchSize:     10,
		FlushInterval: time.Hour,
		WorkerCount:   1,
		QueueSize:     10,
	})

	empID := "emp-1"
	require.True(t, svc.Queue(context.Background(), notification.CreateNotificationRequest{
		RecipientID: &empID,
		Audience:    notification.AudienceEmployee,
		Type:        notification.TypePayslipReleased,
		Title:       "Payslip released",
	}))
	require.True(t, svc.Queue(context.Background(), notification.CreateNotificationRequest{
		Audience: notification.AudienceAdmins,
		Type:     notification.TypePayslipRequestSubmitted,
		Title:    "New payslip request",
	}))

	select {
	case event := <-employeeEvents:
		assert.Equal(t, string(notification.TypePayslipReleased), event.Event)
		payload, ok := event.Data.(notification.NotificationResponse)
		require.True(t, ok)
		assert.Equal(t, "Payslip released", payload.Title)
	case <-time.After(time.Second):
		t.Fatal("employee event not delivered")
	}

	select {
	case event := <-adminEvents:
		assert.Equal(t, string(notification.TypePayslipRequestSubmitted), event.Event)
	case <-time.After(time.Second):
		t.Fatal("admin event not delivered")
	}

	svc.Stop()
	repo.AssertExpectations(t)
}
