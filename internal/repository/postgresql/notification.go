package postgresql

import (
	"context"
	"encoding/json"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

// Create inserts a new notification
func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.CreateBatch(ctx, []*notification.Notification{n})
}

// CreateBatch inserts multiple notifications in one round trip
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (id, recipient_id, audience, type, title, message, data, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for _, n := range notifications {
		var data []byte
		if n.Data != nil {
			encoded, err := json.Marshal(n.Data)
			if err != nil {
				return apperror.Persistence("encode notification data", err)
			}
			data = encoded
		}
		batch.Queue(query, n.ID, n.RecipientID, n.Audience, n.Type, n.Title, n.Message, data, n.IsRead, n.CreatedAt)
	}

	br := q.SendBatch(ctx, batch)
	defer br.Close()

	for range notifications {
		if _, err := br.Exec(); err != nil {
			return apperror.Persistence("insert notification batch", err)
		}
	}

	return nil
}
