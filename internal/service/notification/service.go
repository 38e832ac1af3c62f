package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/sse"
)

// MarkAllID is the path id that marks every unread notification.
const MarkAllID = "all"

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo     notification.Repository
	userRepo user.UserRepository
	hub      *sse.Hub
	config   Config
	loc      *time.Location

	queue    chan notification.AttendanceEvent
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.Repository, userRepo user.UserRepository, hub *sse.Hub, loc *time.Location, cfg Config) notification.Service {
	s := newService(repo, userRepo, hub, loc, cfg)
	s.start()
	return s
}

func newService(repo notification.Repository, userRepo user.UserRepository, hub *sse.Hub, loc *time.Location, cfg Config) *service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if loc == nil {
		loc = time.UTC
	}

	return &service{
		repo:     repo,
		userRepo: userRepo,
		hub:      hub,
		config:   cfg,
		loc:      loc,
		queue:    make(chan notification.AttendanceEvent, cfg.QueueSize),
		stopCh:   make(chan struct{}),
	}
}

func (s *service) start() {
	for i := 0; i < s.config.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started",
		"workers", s.config.WorkerCount,
		"batch_size", s.config.BatchSize,
		"flush_interval", s.config.FlushInterval.String())
}

// worker is the background worker that processes notification queue
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.AttendanceEvent, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		s.deliver(ctx, id, batch)
		batch = batch[:0]
	}

	for {
		select {
		case event := <-s.queue:
			batch = append(batch, event)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain what was accepted before shutdown.
			for {
				select {
				case event := <-s.queue:
					batch = append(batch, event)
					if len(batch) >= s.config.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// deliver fans events out to the supervisors of each office, stores them in
// one batch and pushes them to live subscribers. Errors are logged only.
func (s *service) deliver(ctx context.Context, workerID int, events []notification.AttendanceEvent) {
	supervisors := make(map[string][]user.User)
	var notifications []*notification.Notification

	for _, event := range events {
		recipients, ok := supervisors[event.OfficeID]
		if !ok {
			list, err := s.userRepo.ListByOfficeAndRole(ctx, event.OfficeID, user.RoleSupervisor)
			if err != nil {
				slog.Error("failed to resolve supervisors",
					"worker", workerID, "office_id", event.OfficeID, "error", err)
				continue
			}
			supervisors[event.OfficeID] = list
			recipients = list
		}

		title, message := s.render(event)
		for _, recipient := range recipients {
			// Supervisors checking in themselves are not notified.
			if recipient.ID == event.UserID {
				continue
			}
			attendanceID := event.AttendanceID
			notifications = append(notifications, &notification.Notification{
				UserID:      recipient.ID,
				Title:       title,
				Message:     message,
				Type:        event.Type,
				ReferenceID: &attendanceID,
			})
		}
	}

	if len(notifications) == 0 {
		return
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		slog.Error("failed to batch insert notifications",
			"worker", workerID, "count", len(notifications), "error", err)
		return
	}
	slog.Debug("notifications inserted", "worker", workerID, "count", len(notifications))

	for _, n := range notifications {
		delivered := s.hub.Publish(n.UserID, sse.Event{
			UserID: n.UserID,
			Event:  "notification",
			Data:   notification.NewNotificationResponse(n),
		})
		if delivered == 0 {
			slog.Debug("no live connection for notification", "user_id", n.UserID)
		}
	}
}

func (s *service) render(event notification.AttendanceEvent) (string, string) {
	at := event.At.In(s.loc).Format("15:04")
	switch event.Type {
	case notification.TypeCheckOut:
		return "Check-out", fmt.Sprintf("%s checked out at %s", event.UserName, at)
	case notification.TypeCheckIn:
		return "Check-in", fmt.Sprintf("%s checked in at %s", event.UserName, at)
	}
	return "Attendance", fmt.Sprintf("%s updated attendance at %s", event.UserName, at)
}

// Dispatch queues an event without blocking. A full queue drops the event.
func (s *service) Dispatch(event notification.AttendanceEvent) {
	if s.stopped.Load() {
		slog.Warn("notification dropped after shutdown", "type", event.Type, "user_id", event.UserID)
		return
	}

	select {
	case s.queue <- event:
	default:
		slog.Warn("notification dropped",
			"error", notification.ErrQueueFull,
			"type", event.Type,
			"office_id", event.OfficeID,
			"user_id", event.UserID)
	}
}

// GetNotifications returns the latest notifications and the unread count
func (s *service) GetNotifications(ctx context.Context, userID string) (*notification.NotificationListResponse, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, notification.ListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.NewNotificationResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		UnreadCount:   unreadCount,
	}, nil
}

// MarkAsRead marks one notification, or all of them when id is MarkAllID
func (s *service) MarkAsRead(ctx context.Context, userID string, id string) error {
	if id == MarkAllID {
		return s.repo.MarkAllAsRead(ctx, userID)
	}
	return s.repo.MarkAsRead(ctx, id, userID)
}

// Subscribe creates an SSE subscription for a user
func (s *service) Subscribe(ctx context.Context, userID string) (<-chan notification.SSEEvent, func()) {
	ch, cleanup := s.hub.Subscribe(userID)

	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				if resp, ok := event.Data.(notification.NotificationResponse); ok {
					select {
					case out <- notification.SSEEvent{Event: event.Event, Data: resp}:
					case <-ctx.Done():
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop gracefully stops the notification service
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("notification service stopped")
	})
}
