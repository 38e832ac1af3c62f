package notification

import (
	"context"
	"time"
)

// Repository defines the notification repository interface
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*Notification, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, id string, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	// DeleteReadBefore removes read notifications created before the cutoff
	// and returns how many were removed. Unread rows are never deleted.
	DeleteReadBefore(ctx context.Context, before time.Time) (int64, error)
}
