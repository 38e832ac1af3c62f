package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/utils"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	office.OfficeRepository
	trigger notification.Trigger
	loc     *time.Location
	now     func() time.Time
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, userID string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now := a.now()

	u, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	// Unassigned users skip geofence and schedule checks.
	if u.HasOffice() {
		o, err := a.OfficeRepository.GetByID(ctx, *u.OfficeID)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to get office: %w", err)
		}

		if !req.BypassRadius() {
			distance := utils.DistanceMeters(*req.Latitude, *req.Longitude, o.Latitude, o.Longitude)
			if distance > o.Radius {
				return attendance.AttendanceResponse{}, &attendance.RadiusError{Distance: distance, MaxRadius: o.Radius}
			}
		}

		sched := o.Schedule
		if sched.BlockingEnabled && !clock.IsWithinWindow(now, a.loc, sched.BlockBefore, sched.BlockAfter) {
			return attendance.AttendanceResponse{}, &attendance.WindowError{Earliest: sched.BlockBefore, Latest: sched.BlockAfter}
		}
	}

	date := clock.DateOf(now, a.loc)
	_, err = a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	switch {
	case err == nil:
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	case !errors.Is(err, attendance.ErrAttendanceNotFound):
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	photo, lat, lon := req.PhotoURL, *req.Latitude, *req.Longitude
	created, err := a.AttendanceRepository.Create(ctx, attendance.Attendance{
		UserID:           userID,
		AttendanceDate:   date,
		CheckIn:          &now,
		CheckInPhotoURL:  &photo,
		CheckInLatitude:  &lat,
		CheckInLongitude: &lon,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	a.dispatch(notification.TypeCheckIn, u, created.ID, now)
	return attendance.NewAttendanceResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now := a.now()

	existing, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, clock.DateOf(now, a.loc))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNoCheckInToday
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoCheckInToday
	}
	if existing.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	updated, err := a.AttendanceRepository.RecordCheckOut(ctx, existing.ID, attendance.CheckOutUpdate{
		At:        now,
		PhotoURL:  req.PhotoURL,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to record check-out: %w", err)
	}

	u, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		// The check-out is recorded; only the notification is lost.
		slog.Warn("check-out notification skipped", "user_id", userID, "attendance_id", updated.ID, "error", err)
		return attendance.NewAttendanceResponse(updated), nil
	}
	a.dispatch(notification.TypeCheckOut, u, updated.ID, now)
	return attendance.NewAttendanceResponse(updated), nil
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context, userID string) (*attendance.AttendanceResponse, error) {
	row, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, clock.DateOf(a.now(), a.loc))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	resp := attendance.NewAttendanceResponse(row)
	return &resp, nil
}

// History implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) History(ctx context.Context, userID string) ([]attendance.AttendanceResponse, error) {
	rows, err := a.AttendanceRepository.ListByUser(ctx, userID, attendance.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance history: %w", err)
	}
	return toResponses(rows), nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, actor user.Actor, filter attendance.ListFilter) ([]attendance.AttendanceResponse, error) {
	rows, err := a.list(ctx, actor, filter, attendance.ListLimit)
	if err != nil {
		return nil, err
	}
	return toResponses(rows), nil
}

// ExportCSV implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ExportCSV(ctx context.Context, actor user.Actor, filter attendance.ListFilter, w io.Writer) error {
	rows, err := a.list(ctx, actor, filter, 0)
	if err != nil {
		return err
	}
	return writeCSV(w, rows, a.loc)
}

// ExportXLSX implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ExportXLSX(ctx context.Context, actor user.Actor, filter attendance.ListFilter, w io.Writer) error {
	rows, err := a.list(ctx, actor, filter, 0)
	if err != nil {
		return err
	}
	return writeXLSX(w, rows, a.loc)
}

// list applies the actor's scope. defaultLimit applies when the filter has none;
// zero means unlimited.
func (a *AttendanceServiceImpl) list(ctx context.Context, actor user.Actor, filter attendance.ListFilter, defaultLimit int) ([]attendance.Attendance, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	from, to := filter.Range()
	limit := filter.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	rows, err := a.AttendanceRepository.List(ctx, attendance.Query{
		Scope: actor.Scope(),
		From:  from,
		To:    to,
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return rows, nil
}

// dispatch hands the event to the notification trigger. Users without an
// office have no supervisor to notify.
func (a *AttendanceServiceImpl) dispatch(kind notification.NotificationType, u user.User, attendanceID string, at time.Time) {
	if a.trigger == nil || !u.HasOffice() {
		return
	}
	a.trigger.Dispatch(notification.AttendanceEvent{
		Type:         kind,
		OfficeID:     *u.OfficeID,
		UserID:       u.ID,
		UserName:     u.Name,
		AttendanceID: attendanceID,
		At:           at,
	})
}

func toResponses(rows []attendance.Attendance) []attendance.AttendanceResponse {
	responses := make([]attendance.AttendanceResponse, len(rows))
	for i, row := range rows {
		responses[i] = attendance.NewAttendanceResponse(row)
	}
	return responses
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	officeRepo office.OfficeRepository,
	trigger notification.Trigger,
	loc *time.Location,
	now func() time.Time,
) attendance.AttendanceService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		OfficeRepository:     officeRepo,
		trigger:              trigger,
		loc:                  loc,
		now:                  now,
	}
}
