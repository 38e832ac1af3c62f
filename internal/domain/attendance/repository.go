package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
)

// Query selects attendance rows for read projections.
type Query struct {
	Scope user.Scope
	From  *time.Time // inclusive, on attendance_date
	To    *time.Time // inclusive, on attendance_date
	Limit int        // 0 means no limit
}

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts the check-in row. A second row for the same
	// (user, attendance_date) yields ErrAlreadyCheckedIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByUserAndDate returns the row of userID for the given date or
	// ErrAttendanceNotFound.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Attendance, error)

	// RecordCheckOut sets the check-out fields only if none are set yet;
	// otherwise it returns ErrAlreadyCheckedOut.
	RecordCheckOut(ctx context.Context, id string, update CheckOutUpdate) (Attendance, error)

	// ListByUser returns the latest rows of userID, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]Attendance, error)

	// List returns rows joined with the owning user, newest first.
	List(ctx context.Context, q Query) ([]Attendance, error)
}
