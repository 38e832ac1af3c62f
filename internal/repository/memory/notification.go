package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/notification"
	"github.com/google/uuid"
)

type notificationRepository struct {
	s *Store
}

func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.insert(n)
	return nil
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range notifications {
		r.insert(n)
	}
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*notification.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*notification.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			n := n
			list = append(list, &n)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *notificationRepository) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id string, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return notification.ErrNotificationNotFound
	}
	r.markRead(n)
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			r.markRead(n)
		}
	}
	return nil
}

func (r *notificationRepository) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var deleted int64
	for id, n := range r.s.notifications {
		if n.IsRead && n.CreatedAt.Before(before) {
			delete(r.s.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

// insert assigns identity fields on n and stores a copy. Callers hold the lock.
func (r *notificationRepository) insert(n *notification.Notification) {
	n.ID = uuid.New().String()
	n.CreatedAt = r.s.now()
	r.s.notifications[n.ID] = *n
}

// markRead is idempotent. Callers hold the lock.
func (r *notificationRepository) markRead(n notification.Notification) {
	if n.IsRead {
		return
	}
	readAt := r.s.now()
	n.IsRead = true
	n.ReadAt = &readAt
	r.s.notifications[n.ID] = n
}
