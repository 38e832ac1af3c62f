package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeCheckIn  NotificationType = "CHECK_IN"
	TypeCheckOut NotificationType = "CHECK_OUT"
	TypeInfo     NotificationType = "info"
)

// Notification represents a notification entity
type Notification struct {
	ID          string
	UserID      string
	Title       string
	Message     string
	Type        NotificationType
	ReferenceID *string
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// AttendanceEvent is handed to the trigger after a successful check-in or
// check-out.
type AttendanceEvent struct {
	Type         NotificationType
	OfficeID     string
	UserID       string
	UserName     string
	AttendanceID string
	At           time.Time
}
