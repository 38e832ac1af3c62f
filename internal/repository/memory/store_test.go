package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/customer"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/visit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOfficeWithUsers(s *Store) (office.Office, user.User, user.User) {
	o := s.SeedOffice(office.Office{ID: "office-limpung", Name: "Limpung", Latitude: -7.0, Longitude: 109.9, Radius: 500}, office.DefaultSettings())
	officeID := o.ID
	worker := s.SeedUser(user.User{ID: "u-worker", Name: "Budi", Role: user.RoleKaryawan, OfficeID: &officeID})
	lead := s.SeedUser(user.User{ID: "u-lead", Name: "Sari", Role: user.RoleSupervisor, OfficeID: &officeID})
	return o, worker, lead
}

func TestAttendance_CreateIsUniquePerUserAndDate(t *testing.T) {
	s := NewStore()
	_, worker, _ := seedOfficeWithUsers(s)
	repo := s.Attendances()
	ctx := context.Background()

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, attendance.Attendance{UserID: worker.ID, AttendanceDate: date, CheckIn: &checkIn})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	}
	assert.Equal(t, 1, succeeded)

	got, err := repo.GetByUserAndDate(ctx, worker.ID, date)
	require.NoError(t, err)
	assert.Equal(t, "Budi", *got.UserName)
	assert.Equal(t, "office-limpung", *got.OfficeID)

	_, err = repo.GetByUserAndDate(ctx, worker.ID, date.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendance_RecordCheckOutOnce(t *testing.T) {
	s := NewStore()
	_, worker, _ := seedOfficeWithUsers(s)
	repo := s.Attendances()
	ctx := context.Background()

	checkIn := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
	row, err := repo.Create(ctx, attendance.Attendance{UserID: worker.ID, AttendanceDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), CheckIn: &checkIn})
	require.NoError(t, err)

	update := attendance.CheckOutUpdate{At: checkIn.Add(9 * time.Hour), PhotoURL: "out.jpg", Latitude: -7.0, Longitude: 109.9}
	out, err := repo.RecordCheckOut(ctx, row.ID, update)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedOut, attendance.StateOf(&out))

	_, err = repo.RecordCheckOut(ctx, row.ID, update)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestAttendance_ListRespectsScopeAndRange(t *testing.T) {
	s := NewStore()
	o, worker, lead := seedOfficeWithUsers(s)
	other := s.SeedOffice(office.Office{ID: "office-bandar", Name: "Bandar"}, office.DefaultSettings())
	otherID := other.ID
	outsider := s.SeedUser(user.User{ID: "u-out", Name: "Andi", Role: user.RoleKaryawan, OfficeID: &otherID})

	for day := 1; day <= 3; day++ {
		for _, u := range []user.User{worker, lead, outsider} {
			at := time.Date(2025, 3, day, 1, 0, 0, 0, time.UTC)
			s.SeedAttendance(attendance.Attendance{UserID: u.ID, AttendanceDate: time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC), CheckIn: &at})
		}
	}
	repo := s.Attendances()
	ctx := context.Background()

	officeID := o.ID
	rows, err := repo.List(ctx, attendance.Query{Scope: user.Scope{OfficeID: &officeID}})
	require.NoError(t, err)
	assert.Len(t, rows, 6)

	from := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	rows, err = repo.List(ctx, attendance.Query{From: &from, To: &from})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = repo.ListByUser(ctx, worker.ID, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 3, rows[0].AttendanceDate.Day())
}

func TestOffice_MalformedScheduleSurfaces(t *testing.T) {
	s := NewStore()
	settings := office.DefaultSettings()
	settings.WorkStartTime = "25:00"
	s.SeedOffice(office.Office{ID: "broken"}, settings)

	_, err := s.Offices().GetByID(context.Background(), "broken")
	assert.ErrorIs(t, err, office.ErrInvalidSchedule)

	_, err = s.Offices().GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, office.ErrOfficeNotFound)
}

func TestOffice_UpdateSchedule(t *testing.T) {
	s := NewStore()
	o, _, _ := seedOfficeWithUsers(s)
	settings := office.DefaultSettings()
	settings.WorkStartTime = "07:30"

	updated, err := s.Offices().UpdateSchedule(context.Background(), o.ID, settings)
	require.NoError(t, err)
	assert.Equal(t, "07:30", updated.Schedule.WorkStart.String())
}

func TestCustomer_ProspectDeduplicatesByName(t *testing.T) {
	s := NewStore()
	repo := s.Customers()
	ctx := context.Background()

	first, err := repo.CreateProspect(ctx, customer.NewProspect("Toko Makmur", -7.0, 109.9))
	require.NoError(t, err)
	second, err := repo.CreateProspect(ctx, customer.NewProspect("  toko makmur ", -7.1, 109.8))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, s.CustomerCount())

	found, err := repo.FindByName(ctx, "TOKO MAKMUR")
	require.NoError(t, err)
	assert.True(t, found.IsProvisional())

	_, err = repo.FindByName(ctx, "Toko")
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
}

func TestVisit_ListCountAndApproval(t *testing.T) {
	s := NewStore()
	_, worker, lead := seedOfficeWithUsers(s)
	c := s.SeedCustomer(customer.Customer{Name: "Pak Harjo", Latitude: -7.0, Longitude: 109.9})
	repo := s.Visits()
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, visit.Visit{
			UserID: worker.ID, CustomerID: c.ID, Purpose: visit.PurposeOfferingOnly, Status: visit.StatusPending,
			VisitTime: base.Add(time.Duration(i) * time.Hour),
			Products:  []visit.Product{{ProductCode: visit.ProductDeposito, ProductName: "Deposito"}},
		})
		require.NoError(t, err)
	}

	rows, err := repo.List(ctx, visit.Query{UserID: &worker.ID})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].VisitTime.After(rows[1].VisitTime))
	assert.Equal(t, "Pak Harjo", *rows[0].CustomerName)
	assert.Equal(t, rows[0].ID, rows[0].Products[0].VisitID)

	to := base.Add(30 * time.Minute)
	n, err := repo.Count(ctx, visit.Query{To: &to})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	updated, err := repo.UpdateStatus(ctx, rows[0].ID, visit.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, visit.StatusApproved, updated.Status)

	_, err = repo.CreateApproval(ctx, visit.Approval{VisitID: rows[0].ID, ApproverID: lead.ID, Status: visit.StatusApproved})
	require.NoError(t, err)
	assert.Len(t, s.Approvals(), 1)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, visit.ErrVisitNotFound)
}

func TestNotification_ReadLifecycle(t *testing.T) {
	s := NewStore()
	repo := s.Notifications()
	ctx := context.Background()

	batch := []*notification.Notification{
		{UserID: "u-lead", Title: "Check-in", Message: "Budi checked in", Type: notification.TypeCheckIn},
		{UserID: "u-lead", Title: "Check-out", Message: "Budi checked out", Type: notification.TypeCheckOut},
		{UserID: "u-other", Title: "Check-in", Message: "Andi checked in", Type: notification.TypeCheckIn},
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))
	assert.NotEmpty(t, batch[0].ID)

	count, err := repo.GetUnreadCount(ctx, "u-lead")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.ErrorIs(t, repo.MarkAsRead(ctx, batch[2].ID, "u-lead"), notification.ErrNotificationNotFound)
	require.NoError(t, repo.MarkAsRead(ctx, batch[0].ID, "u-lead"))
	require.NoError(t, repo.MarkAsRead(ctx, batch[0].ID, "u-lead"))

	count, _ = repo.GetUnreadCount(ctx, "u-lead")
	assert.Equal(t, 1, count)

	require.NoError(t, repo.MarkAllAsRead(ctx, "u-lead"))
	list, err := repo.ListByUser(ctx, "u-lead", 50)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, n := range list {
		assert.True(t, n.IsRead)
		assert.NotNil(t, n.ReadAt)
	}
}

func TestUser_CountAndListByRole(t *testing.T) {
	s := NewStore()
	o, worker, _ := seedOfficeWithUsers(s)
	s.SeedUser(user.User{ID: "u-admin", Name: "Admin", Role: user.RoleAdmin})
	repo := s.Users()
	ctx := context.Background()

	n, err := repo.CountByRole(ctx, user.RoleKaryawan, user.Scope{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	officeID := o.ID
	n, err = repo.CountByRole(ctx, user.RoleKaryawan, user.Scope{OfficeID: &officeID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.CountByRole(ctx, user.RoleKaryawan, user.Scope{UserID: &worker.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	leads, err := repo.ListByOfficeAndRole(ctx, o.ID, user.RoleSupervisor)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "u-lead", leads[0].ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	tx := s.Transactor()
	boom := errors.New("boom")

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.Customers().CreateProspect(ctx, customer.NewProspect("Toko Baru", -7.0, 109.9))
		require.NoError(t, err)
		// Nested calls join the outer transaction.
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			s.SeedVisit(visit.Visit{UserID: "u-worker", Status: visit.StatusPending})
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, s.CustomerCount())
	visits, err := s.Visits().List(ctx, visit.Query{})
	require.NoError(t, err)
	assert.Empty(t, visits)

	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.Customers().CreateProspect(ctx, customer.NewProspect("Toko Baru", -7.0, 109.9))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.CustomerCount())
}
