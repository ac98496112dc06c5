package memory

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/notification"
)

type notificationRepositoryImpl struct {
	s *Store
}

func NewNotificationRepository(s *Store) notification.Repository {
	return &notificationRepositoryImpl{s: s}
}

func (r *notificationRepositoryImpl) Create(ctx context.Context, n *notification.Notification) error {
	return r.CreateBatch(ctx, []*notification.Notification{n})
}

func (r *notificationRepositoryImpl) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	return r.s.do(ctx, "notification.create", func(st *state) error {
		st.notifications = append(st.notifications, ns...)
		return nil
	})
}
