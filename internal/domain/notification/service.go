package notification

import (
	"context"
)

// Trigger accepts attendance events without blocking the caller. Delivery is
// attempted at most once and failures are only logged.
type Trigger interface {
	Dispatch(event AttendanceEvent)
}

// Service defines the notification service interface
type Service interface {
	Trigger

	GetNotifications(ctx context.Context, userID string) (*NotificationListResponse, error)
	// MarkAsRead marks one notification, or every unread one when id is "all".
	MarkAsRead(ctx context.Context, userID string, id string) error

	// SSE subscription
	Subscribe(ctx context.Context, userID string) (<-chan SSEEvent, func())

	// Lifecycle
	Stop()
}
