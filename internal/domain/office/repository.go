package office

import "context"

type OfficeRepository interface {
	// GetByID returns the office with its schedule parsed, or
	// ErrInvalidSchedule when the stored settings are malformed.
	GetByID(ctx context.Context, id string) (Office, error)
	List(ctx context.Context) ([]Office, error)
	UpdateSchedule(ctx context.Context, id string, settings ScheduleSettings) (Office, error)
}
