package attendance

import (
	"context"
	"io"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's attendance after photo, location, geofence and
	// window checks.
	CheckIn(ctx context.Context, userID string, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's attendance.
	CheckOut(ctx context.Context, userID string, req CheckOutRequest) (AttendanceResponse, error)

	// Today returns today's attendance of the user, or nil.
	Today(ctx context.Context, userID string) (*AttendanceResponse, error)

	// History returns the latest HistoryLimit rows of the user.
	History(ctx context.Context, userID string) ([]AttendanceResponse, error)

	// List returns rows visible to the actor.
	List(ctx context.Context, actor user.Actor, filter ListFilter) ([]AttendanceResponse, error)

	ExportCSV(ctx context.Context, actor user.Actor, filter ListFilter, w io.Writer) error
	ExportXLSX(ctx context.Context, actor user.Actor, filter ListFilter, w io.Writer) error
}
