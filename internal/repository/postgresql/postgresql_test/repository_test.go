package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/customer"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func checkIn(userID string) attendance.Attendance {
	at := time.Date(2025, 3, 10, 1, 30, 0, 0, time.UTC)
	photo := "/uploads/photos/in.jpg"
	lat, lon := -7.0, 109.9
	return attendance.Attendance{
		UserID:           userID,
		AttendanceDate:   day,
		CheckIn:          &at,
		CheckInPhotoURL:  &photo,
		CheckInLatitude:  &lat,
		CheckInLongitude: &lon,
	}
}

func TestAttendanceRepository_OnePerUserAndDay(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	officeID := setup.SeedOffice(t, "Limpung", -7.0, 109.9)
	userID := setup.SeedUser(t, "worker", "karyawan", &officeID)
	repo := postgresql.NewAttendanceRepository(setup.DB)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, checkIn(userID))
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

	got, err := repo.GetByUserAndDate(ctx, userID, day)
	require.NoError(t, err)
	assert.Equal(t, "worker", *got.UserName)
	assert.Equal(t, officeID, *got.OfficeID)
	assert.True(t, got.AttendanceDate.Equal(day))
}

func TestAttendanceRepository_CheckOutOnce(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	userID := setup.SeedUser(t, "worker", "karyawan", nil)
	repo := postgresql.NewAttendanceRepository(setup.DB)

	created, err := repo.Create(ctx, checkIn(userID))
	require.NoError(t, err)

	update := attendance.CheckOutUpdate{At: time.Now(), PhotoURL: "/uploads/photos/out.jpg", Latitude: -7.0, Longitude: 109.9}
	out, err := repo.RecordCheckOut(ctx, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedOut, attendance.StateOf(&out))

	_, err = repo.RecordCheckOut(ctx, created.ID, update)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestAttendanceRepository_ListScope(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	limpung := setup.SeedOffice(t, "Limpung", -7.0, 109.9)
	bandar := setup.SeedOffice(t, "Bandar", -7.02, 109.8)
	first := setup.SeedUser(t, "first", "karyawan", &limpung)
	second := setup.SeedUser(t, "second", "karyawan", &bandar)
	repo := postgresql.NewAttendanceRepository(setup.DB)

	for _, id := range []string{first, second} {
		_, err := repo.Create(ctx, checkIn(id))
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, attendance.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := repo.List(ctx, attendance.Query{Scope: user.Scope{OfficeID: &limpung}})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, first, scoped[0].UserID)

	before := day.AddDate(0, 0, -1)
	none, err := repo.List(ctx, attendance.Query{To: &before})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOfficeRepository_Schedule(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	officeID := setup.SeedOffice(t, "Limpung", -7.0, 109.9)
	repo := postgresql.NewOfficeRepository(setup.DB)

	o, err := repo.GetByID(ctx, officeID)
	require.NoError(t, err)
	assert.Equal(t, office.DefaultSchedule(), o.Schedule)

	settings := office.DefaultSettings()
	settings.EnableBlocking = true
	settings.GracePeriod = 5
	updated, err := repo.UpdateSchedule(ctx, officeID, settings)
	require.NoError(t, err)
	assert.True(t, updated.Schedule.BlockingEnabled)
	assert.Equal(t, 5, updated.Schedule.GracePeriodMinutes)

	_, err = setup.DB.Exec(ctx, `UPDATE offices SET work_start_time = '8am' WHERE id = $1`, officeID)
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, officeID)
	assert.ErrorIs(t, err, office.ErrInvalidSchedule)
}

func TestCustomerRepository_ProspectIsCreatedOnce(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewCustomerRepository(setup.DB)

	first, err := repo.CreateProspect(ctx, customer.NewProspect("Toko Makmur", -7.0, 109.9))
	require.NoError(t, err)
	second, err := repo.CreateProspect(ctx, customer.NewProspect("toko makmur", -7.1, 109.8))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsProvisional())

	found, err := repo.FindByName(ctx, "  TOKO MAKMUR ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = repo.FindByName(ctx, "Unknown")
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
}

func TestVisitRepository_CreateWithProducts(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	officeID := setup.SeedOffice(t, "Limpung", -7.0, 109.9)
	userID := setup.SeedUser(t, "worker", "karyawan", &officeID)
	approverID := setup.SeedUser(t, "lead", "supervisor", &officeID)

	att, err := postgresql.NewAttendanceRepository(setup.DB).Create(ctx, checkIn(userID))
	require.NoError(t, err)
	c, err := postgresql.NewCustomerRepository(setup.DB).CreateProspect(ctx, customer.NewProspect("Toko Makmur", -7.0, 109.9))
	require.NoError(t, err)

	repo := postgresql.NewVisitRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)
	interested := visit.ProspectInterested
	v := visit.Visit{
		UserID:         userID,
		CustomerID:     c.ID,
		AttendanceID:   att.ID,
		Purpose:        visit.PurposeOfferingOnly,
		Latitude:       -7.0,
		Longitude:      109.9,
		Status:         visit.StatusPending,
		VisitTime:      time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC),
		ProspectStatus: &interested,
		PotentialValue: decimal.NewNullDecimal(decimal.RequireFromString("15000000.50")),
		Products: []visit.Product{
			{ProductCode: visit.ProductDeposito, ProductName: "Deposito"},
		},
	}

	var created visit.Visit
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = repo.Create(ctx, v)
		return err
	})
	require.NoError(t, err)
	require.Len(t, created.Products, 1)
	assert.Equal(t, "Toko Makmur", *created.CustomerName)
	assert.True(t, created.PotentialValue.Decimal.Equal(decimal.RequireFromString("15000000.5")))

	count, err := repo.Count(ctx, visit.Query{Scope: user.Scope{OfficeID: &officeID}})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = repo.UpdateStatus(ctx, created.ID, visit.StatusApproved)
	require.NoError(t, err)
	approval, err := repo.CreateApproval(ctx, visit.Approval{VisitID: created.ID, ApproverID: approverID, Status: visit.StatusApproved})
	require.NoError(t, err)
	assert.NotEmpty(t, approval.ID)
}

func TestTransactor_RollsBack(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewCustomerRepository(setup.DB)

	err := postgresql.NewTransactor(setup.DB).WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := repo.CreateProspect(ctx, customer.NewProspect("Rolled Back", -7.0, 109.9)); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = repo.FindByName(ctx, "Rolled Back")
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
}

func TestNotificationRepository_ReadLifecycle(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	userID := setup.SeedUser(t, "lead", "supervisor", nil)
	repo := postgresql.NewNotificationRepository(setup.DB)

	batch := []*notification.Notification{
		{UserID: userID, Title: "Check-in", Message: "worker checked in at 08:30", Type: notification.TypeCheckIn},
		{UserID: userID, Title: "Check-out", Message: "worker checked out at 17:10", Type: notification.TypeCheckOut},
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))

	unread, err := repo.GetUnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	require.NoError(t, repo.MarkAsRead(ctx, batch[0].ID, userID))
	require.NoError(t, repo.MarkAllAsRead(ctx, userID))

	list, err := repo.ListByUser(ctx, userID, 50)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, n := range list {
		assert.True(t, n.IsRead)
		assert.NotNil(t, n.ReadAt)
	}
}

func TestNotificationRepository_DeleteReadBefore(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	userID := setup.SeedUser(t, "lead", "supervisor", nil)
	repo := postgresql.NewNotificationRepository(setup.DB)

	old := time.Now().AddDate(0, 0, -60)
	batch := []*notification.Notification{
		{UserID: userID, Title: "old read", Type: notification.TypeCheckIn, CreatedAt: old},
		{UserID: userID, Title: "old unread", Type: notification.TypeCheckIn, CreatedAt: old},
		{UserID: userID, Title: "fresh", Type: notification.TypeCheckOut},
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))
	require.NoError(t, repo.MarkAsRead(ctx, batch[0].ID, userID))
	require.NoError(t, repo.MarkAsRead(ctx, batch[2].ID, userID))

	deleted, err := repo.DeleteReadBefore(ctx, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	list, err := repo.ListByUser(ctx, userID, 50)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRepositories_MalformedIDIsNotFound(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	const bad = "abc"

	_, err := postgresql.NewCustomerRepository(setup.DB).GetByID(ctx, bad)
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)

	visits := postgresql.NewVisitRepository(setup.DB)
	_, err = visits.GetByID(ctx, bad)
	assert.ErrorIs(t, err, visit.ErrVisitNotFound)
	_, err = visits.UpdateStatus(ctx, bad, visit.StatusApproved)
	assert.ErrorIs(t, err, visit.ErrVisitNotFound)
	_, err = visits.CreateApproval(ctx, visit.Approval{VisitID: bad, Status: visit.StatusApproved})
	assert.ErrorIs(t, err, visit.ErrVisitNotFound)

	customerID := bad
	list, err := visits.List(ctx, visit.Query{CustomerID: &customerID})
	require.NoError(t, err)
	assert.Empty(t, list)
	count, err := visits.Count(ctx, visit.Query{UserID: &customerID})
	require.NoError(t, err)
	assert.Zero(t, count)

	offices := postgresql.NewOfficeRepository(setup.DB)
	_, err = offices.GetByID(ctx, bad)
	assert.ErrorIs(t, err, office.ErrOfficeNotFound)
	_, err = offices.UpdateSchedule(ctx, bad, office.DefaultSettings())
	assert.ErrorIs(t, err, office.ErrOfficeNotFound)

	_, err = postgresql.NewUserRepository(setup.DB).GetByID(ctx, bad)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	userID := setup.SeedUser(t, "worker", "karyawan", nil)
	err = postgresql.NewNotificationRepository(setup.DB).MarkAsRead(ctx, bad, userID)
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
}
