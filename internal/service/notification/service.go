package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	config Config
	logger *slog.Logger

	queue    chan notification.CreateNotificationRequest
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService creates a new notification service with background
// workers. Notifications are pushed to live subscribers on hub (optional)
// as soon as a worker picks them up, and persisted in batches.
func NewNotificationService(repo notification.Repository, hub *sse.Hub, logger *slog.Logger, cfg Config) notification.Service {
	// Set defaults
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		config: cfg,
		logger: logger.With(slog.String("component", "notification")),
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	// Start background workers
	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.logger.Info("notification service started",
		slog.Int("workers", cfg.WorkerCount),
		slog.Int("batch_size", cfg.BatchSize),
		slog.Duration("flush_interval", cfg.FlushInterval))

	return s
}

// worker is the background worker that processes notification queue
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]*notification.Notification, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			s.logger.Error("failed to persist notifications",
				slog.Int("worker", id),
				slog.Int("count", len(batch)),
				slog.String("error", err.Error()))
		} else {
			s.logger.Debug("notifications persisted", slog.Int("worker", id), slog.Int("count", len(batch)))
		}

		// The repository may keep the slice; start a fresh one.
		batch = make([]*notification.Notification, 0, s.config.BatchSize)
	}

	accept := func(req notification.CreateNotificationRequest) {
		n := toEntity(req)
		s.publish(n)
		batch = append(batch, n)
		if len(batch) >= s.config.BatchSize {
			flush()
		}
	}

	for {
		select {
		case req := <-s.queue:
			accept(req)
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain what is already queued before exiting.
			for {
				select {
				case req := <-s.queue:
					accept(req)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Queue queues a notification for async processing. A full queue drops it.
func (s *service) Queue(ctx context.Context, req notification.CreateNotificationRequest) bool {
	select {
	case <-s.stopCh:
		s.logger.Warn("notification dropped after shutdown", slog.String("type", string(req.Type)))
		return false
	default:
	}

	select {
	case s.queue <- req:
		return true
	default:
		s.logger.WarnContext(ctx, "notification queue full, dropping notification",
			slog.String("type", string(req.Type)),
			slog.String("audience", string(req.Audience)))
		return false
	}
}

// Stop gracefully stops the notification service
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		s.logger.Info("notification service stopped")
	})
}

// publish pushes the notification to the channel of its audience.
func (s *service) publish(n *notification.Notification) {
	if s.hub == nil {
		return
	}

	channel := sse.ChannelAdmins
	if n.Audience == notification.AudienceEmployee {
		if n.RecipientID == nil {
			return
		}
		channel = *n.RecipientID
	}

	s.hub.Publish(sse.Event{
		Channel: channel,
		Event:   string(n.Type),
		Data:    notification.ToResponse(n),
	})
}

func toEntity(req notification.CreateNotificationRequest) *notification.Notification {
	return &notification.Notification{
		ID:          uuid.Must(uuid.NewV7()).String(),
		RecipientID: req.RecipientID,
		Audience:    req.Audience,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		IsRead:      false,
		CreatedAt:   time.Now(),
	}
}
