package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	user.UserRepository
	office.OfficeRepository
	attendance.AttendanceRepository
	visit.VisitRepository
	loc *time.Location
	now func() time.Time
}

func NewDashboardService(
	userRepo user.UserRepository,
	officeRepo office.OfficeRepository,
	attendanceRepo attendance.AttendanceRepository,
	visitRepo visit.VisitRepository,
	loc *time.Location,
	now func() time.Time,
) dashboard.DashboardService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		UserRepository:       userRepo,
		OfficeRepository:     officeRepo,
		AttendanceRepository: attendanceRepo,
		VisitRepository:      visitRepo,
		loc:                  loc,
		now:                  now,
	}
}

// parseDay parses YYYY-MM-DD as a local calendar day, defaulting to today.
func (s *DashboardServiceImpl) parseDay(date string) (time.Time, error) {
	if date == "" {
		return s.now().In(s.loc), nil
	}
	parsed, ok := validator.IsValidDate(date)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 12, 0, 0, 0, s.loc), nil
}

// GetDailyStats loads headcount, attendance rows and the visit count in
// parallel, then evaluates lateness and overtime per row against the
// schedules of the offices those rows belong to.
func (s *DashboardServiceImpl) GetDailyStats(ctx context.Context, actor user.Actor, date string) (*dashboard.DailyStatsResponse, error) {
	if actor.Role != user.RoleAdmin && actor.Role != user.RoleSupervisor {
		return nil, user.ErrInsufficientPermissions
	}
	day, err := s.parseDay(date)
	if err != nil {
		return nil, err
	}
	scope := actor.Scope()
	attendanceDate := clock.DateOf(day, s.loc)
	from, to := clock.StartOfDay(day, s.loc), clock.EndOfDay(day, s.loc)

	var (
		totalEmployees int
		rows           []attendance.Attendance
		visitCount     int
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.UserRepository.CountByRole(gCtx, user.RoleKaryawan, scope)
		if err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		totalEmployees = n
		return nil
	})

	g.Go(func() error {
		list, err := s.AttendanceRepository.List(gCtx, attendance.Query{Scope: scope, From: &attendanceDate, To: &attendanceDate})
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		rows = list
		return nil
	})

	g.Go(func() error {
		n, err := s.VisitRepository.Count(gCtx, visit.Query{Scope: scope, From: &from, To: &to})
		if err != nil {
			return fmt.Errorf("failed to count visits: %w", err)
		}
		visitCount = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	schedules, err := s.loadSchedules(ctx, rows)
	if err != nil {
		return nil, err
	}

	stats := &dashboard.DailyStatsResponse{
		Date:           attendanceDate.Format("2006-01-02"),
		TotalEmployees: totalEmployees,
		PresentCount:   len(rows),
		VisitCount:     visitCount,
	}
	for _, row := range rows {
		// Without an office there is no schedule to judge against.
		if row.OfficeID == nil {
			continue
		}
		sched, ok := schedules[*row.OfficeID]
		if !ok {
			continue
		}
		if row.CheckIn != nil && clock.IsLate(*row.CheckIn, s.loc, sched.WorkStart, sched.GracePeriodMinutes) {
			stats.LateCount++
		}
		if row.CheckOut != nil {
			stats.OvertimeMinutes += clock.OvertimeMinutes(*row.CheckOut, s.loc, sched.WorkEnd)
		}
	}

	return stats, nil
}

// loadSchedules fetches only the offices referenced by rows, so a malformed
// schedule elsewhere does not fail the query.
func (s *DashboardServiceImpl) loadSchedules(ctx context.Context, rows []attendance.Attendance) (map[string]office.Schedule, error) {
	ids := make(map[string]struct{})
	for _, row := range rows {
		if row.OfficeID != nil {
			ids[*row.OfficeID] = struct{}{}
		}
	}

	var mu sync.Mutex
	schedules := make(map[string]office.Schedule, len(ids))
	g, gCtx := errgroup.WithContext(ctx)
	for id := range ids {
		id := id
		g.Go(func() error {
			o, err := s.OfficeRepository.GetByID(gCtx, id)
			if err != nil {
				return fmt.Errorf("failed to get office %s: %w", id, err)
			}
			mu.Lock()
			schedules[id] = o.Schedule
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return schedules, nil
}
