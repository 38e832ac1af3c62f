package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/customer"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

func at(day, hour, minute int) *time.Time {
	t := time.Date(2025, 3, day, hour, minute, 0, 0, wib)
	return &t
}

func newStatsFixture(t *testing.T) (*memory.Store, dashboard.DashboardService) {
	t.Helper()
	s := memory.NewStore()
	s.SeedOffice(office.Office{ID: "office-limpung", Name: "Limpung"}, office.DefaultSettings())
	late := office.DefaultSettings()
	late.WorkStartTime = "09:00"
	late.WorkEndTime = "18:00"
	late.GracePeriod = 0
	s.SeedOffice(office.Office{ID: "office-bandar", Name: "Bandar"}, late)

	limpung, bandar := "office-limpung", "office-bandar"
	for _, u := range []user.User{
		{ID: "w1", Name: "Budi", Role: user.RoleKaryawan, OfficeID: &limpung},
		{ID: "w2", Name: "Andi", Role: user.RoleKaryawan, OfficeID: &limpung},
		{ID: "w3", Name: "Citra", Role: user.RoleKaryawan, OfficeID: &limpung},
		{ID: "w4", Name: "Dedi", Role: user.RoleKaryawan, OfficeID: &bandar},
		{ID: "w5", Name: "Eka", Role: user.RoleKaryawan},
		{ID: "lead", Name: "Sari", Role: user.RoleSupervisor, OfficeID: &limpung},
	} {
		s.SeedUser(u)
	}

	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rows := []attendance.Attendance{
		{UserID: "w1", CheckIn: at(10, 7, 55), CheckOut: at(10, 17, 30)},
		{UserID: "w2", CheckIn: at(10, 8, 15)},
		{UserID: "w3", CheckIn: at(10, 8, 16), CheckOut: at(10, 16, 0)},
		{UserID: "w4", CheckIn: at(10, 9, 1), CheckOut: at(10, 18, 10)},
		{UserID: "w5", CheckIn: at(10, 11, 0), CheckOut: at(10, 22, 0)},
	}
	for _, row := range rows {
		row.AttendanceDate = today
		s.SeedAttendance(row)
	}
	yesterday := at(9, 10, 0)
	s.SeedAttendance(attendance.Attendance{UserID: "w1", AttendanceDate: today.AddDate(0, 0, -1), CheckIn: yesterday})

	c := s.SeedCustomer(customer.Customer{Name: "Pak Harjo"})
	s.SeedVisit(visit.Visit{UserID: "w1", CustomerID: c.ID, Status: visit.StatusPending, VisitTime: *at(10, 10, 0)})
	s.SeedVisit(visit.Visit{UserID: "w4", CustomerID: c.ID, Status: visit.StatusPending, VisitTime: *at(10, 23, 59)})
	s.SeedVisit(visit.Visit{UserID: "w1", CustomerID: c.ID, Status: visit.StatusPending, VisitTime: *at(11, 0, 0)})

	svc := NewDashboardService(s.Users(), s.Offices(), s.Attendances(), s.Visits(), wib, func() time.Time { return *at(10, 20, 0) })
	return s, svc
}

func TestGetDailyStats_SupervisorScope(t *testing.T) {
	_, svc := newStatsFixture(t)
	officeID := "office-limpung"

	stats, err := svc.GetDailyStats(context.Background(), user.Actor{UserID: "lead", Role: user.RoleSupervisor, OfficeID: &officeID}, "")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", stats.Date)
	assert.Equal(t, 3, stats.TotalEmployees)
	assert.Equal(t, 3, stats.PresentCount)
	assert.Equal(t, 1, stats.LateCount)
	assert.Equal(t, 30, stats.OvertimeMinutes)
	assert.Equal(t, 1, stats.VisitCount)
}

func TestGetDailyStats_AdminUnscoped(t *testing.T) {
	_, svc := newStatsFixture(t)

	stats, err := svc.GetDailyStats(context.Background(), user.Actor{UserID: "admin", Role: user.RoleAdmin}, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalEmployees)
	assert.Equal(t, 5, stats.PresentCount)
	// w3 at 08:16 and w4 at 09:01 with no grace; w5 has no office.
	assert.Equal(t, 2, stats.LateCount)
	assert.Equal(t, 30+10, stats.OvertimeMinutes)
	assert.Equal(t, 2, stats.VisitCount)

	stats, err = svc.GetDailyStats(context.Background(), user.Actor{UserID: "admin", Role: user.RoleAdmin}, "2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PresentCount)
	assert.Equal(t, 1, stats.LateCount)
	assert.Equal(t, 0, stats.VisitCount)
}

func TestGetDailyStats_RecomputesOnEveryCall(t *testing.T) {
	s, svc := newStatsFixture(t)
	admin := user.Actor{UserID: "admin", Role: user.RoleAdmin}

	before, err := svc.GetDailyStats(context.Background(), admin, "")
	require.NoError(t, err)

	limpung := "office-limpung"
	s.SeedUser(user.User{ID: "w6", Name: "Fajar", Role: user.RoleKaryawan, OfficeID: &limpung})
	s.SeedAttendance(attendance.Attendance{UserID: "w6", AttendanceDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), CheckIn: at(10, 12, 0)})

	after, err := svc.GetDailyStats(context.Background(), admin, "")
	require.NoError(t, err)
	assert.Equal(t, before.PresentCount+1, after.PresentCount)
	assert.Equal(t, before.LateCount+1, after.LateCount)
	assert.Equal(t, before.TotalEmployees+1, after.TotalEmployees)
}

func TestGetDailyStats_Rejections(t *testing.T) {
	_, svc := newStatsFixture(t)

	_, err := svc.GetDailyStats(context.Background(), user.Actor{UserID: "w1", Role: user.RoleKaryawan}, "")
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = svc.GetDailyStats(context.Background(), user.Actor{UserID: "admin", Role: user.RoleAdmin}, "10/03/2025")
	assert.Error(t, err)
}

func TestGetDailyStats_IgnoresUnrelatedBrokenOffice(t *testing.T) {
	s, svc := newStatsFixture(t)
	broken := office.DefaultSettings()
	broken.WorkStartTime = "8am"
	s.SeedOffice(office.Office{ID: "office-other", Name: "Other"}, broken)
	officeID := "office-limpung"

	stats, err := svc.GetDailyStats(context.Background(), user.Actor{UserID: "lead", Role: user.RoleSupervisor, OfficeID: &officeID}, "")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.PresentCount)
	assert.Equal(t, 1, stats.LateCount)

	// Once a row references the broken office the failure surfaces.
	other := "office-other"
	s.SeedUser(user.User{ID: "w7", Name: "Gita", Role: user.RoleKaryawan, OfficeID: &other})
	s.SeedAttendance(attendance.Attendance{UserID: "w7", AttendanceDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), CheckIn: at(10, 8, 0)})

	_, err = svc.GetDailyStats(context.Background(), user.Actor{UserID: "admin", Role: user.RoleAdmin}, "")
	assert.ErrorIs(t, err, office.ErrInvalidSchedule)
}
