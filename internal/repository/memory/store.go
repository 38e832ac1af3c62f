// Package memory keeps every repository in process memory. It backs the
// service and handler tests and the DB_DRIVER=memory local mode; it enforces
// the same uniqueness rules as the PostgreSQL schema.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/customer"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type officeRecord struct {
	office   office.Office
	settings office.ScheduleSettings
}

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	now  func() time.Time

	users         map[string]user.User
	offices       map[string]officeRecord
	customers     map[string]customer.Customer
	attendances   map[string]attendance.Attendance
	visits        map[string]visit.Visit
	approvals     []visit.Approval
	notifications map[string]notification.Notification
}

func NewStore() *Store {
	return &Store{
		now:           time.Now,
		users:         make(map[string]user.User),
		offices:       make(map[string]officeRecord),
		customers:     make(map[string]customer.Customer),
		attendances:   make(map[string]attendance.Attendance),
		visits:        make(map[string]visit.Visit),
		notifications: make(map[string]notification.Notification),
	}
}

func (s *Store) Users() user.UserRepository { return &userRepository{s} }
func (s *Store) Offices() office.OfficeRepository { return &officeRepository{s} }
func (s *Store) Customers() customer.CustomerRepository { return &customerRepository{s} }
func (s *Store) Attendances() attendance.AttendanceRepository { return &attendanceRepository{s} }
func (s *Store) Visits() visit.VisitRepository { return &visitRepository{s} }
func (s *Store) Notifications() notification.Repository { return &notificationRepository{s} }
func (s *Store) Transactor() database.Transactor { return &transactor{s} }

// SetNow replaces the clock used for created_at and updated_at stamps.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SeedUser stores u as-is, assigning an id when empty.
func (s *Store) SeedUser(u user.User) user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
		u.UpdatedAt = u.CreatedAt
	}
	s.users[u.ID] = u
	return u
}

// SeedOffice stores an office with raw schedule settings, which may be
// malformed on purpose.
func (s *Store) SeedOffice(o office.Office, settings office.ScheduleSettings) office.Office {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
		o.UpdatedAt = o.CreatedAt
	}
	s.offices[o.ID] = officeRecord{office: o, settings: settings}
	return o
}

func (s *Store) SeedCustomer(c customer.Customer) customer.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
		c.UpdatedAt = c.CreatedAt
	}
	s.customers[c.ID] = c
	return c
}

// SeedAttendance stores a row directly, bypassing the uniqueness check.
func (s *Store) SeedAttendance(a attendance.Attendance) attendance.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
		a.UpdatedAt = a.CreatedAt
	}
	s.attendances[a.ID] = a
	return a
}

// SeedVisit stores a visit directly.
func (s *Store) SeedVisit(v visit.Visit) visit.Visit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.now()
		v.UpdatedAt = v.CreatedAt
	}
	s.visits[v.ID] = v
	return v
}

// CustomerCount returns the number of stored customers.
func (s *Store) CustomerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.customers)
}

// Approvals returns a copy of the approval audit trail.
func (s *Store) Approvals() []visit.Approval {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]visit.Approval(nil), s.approvals...)
}

// officeOf returns the office id of userID. Callers hold the lock.
func (s *Store) officeOf(userID string) *string {
	u, ok := s.users[userID]
	if !ok || u.OfficeID == nil {
		return nil
	}
	id := *u.OfficeID
	return &id
}

// inScope reports whether a row owned by userID is visible in scope.
// Callers hold the lock.
func (s *Store) inScope(scope user.Scope, userID string) bool {
	if scope.IsUnscoped() {
		return true
	}
	if scope.UserID != nil && *scope.UserID != userID {
		return false
	}
	if scope.OfficeID != nil {
		officeID := s.officeOf(userID)
		if officeID == nil || *officeID != *scope.OfficeID {
			return false
		}
	}
	return true
}

type txKey struct{}

type snapshot struct {
	customers     map[string]customer.Customer
	attendances   map[string]attendance.Attendance
	visits        map[string]visit.Visit
	approvals     []visit.Approval
	notifications map[string]notification.Notification
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		customers:     maps.Clone(s.customers),
		attendances:   maps.Clone(s.attendances),
		visits:        maps.Clone(s.visits),
		approvals:     slices.Clone(s.approvals),
		notifications: maps.Clone(s.notifications),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = snap.customers
	s.attendances = snap.attendances
	s.visits = snap.visits
	s.approvals = snap.approvals
	s.notifications = snap.notifications
}

type transactor struct {
	s *Store
}

// WithinTransaction snapshots the mutable tables and restores them when fn
// fails. Transactions run one at a time and nested calls join the outer one.
// A rollback also discards writes made outside the transaction while fn ran.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

func strPtr(s string) *string { return &s }
