package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type attendanceRepository struct {
	s *Store
}

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.attendances {
		if existing.UserID == a.UserID && existing.AttendanceDate.Equal(a.AttendanceDate) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	a.ID = uuid.New().String()
	a.CreatedAt = r.s.now()
	a.UpdatedAt = a.CreatedAt
	r.s.attendances[a.ID] = a
	return r.join(a), nil
}

func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.attendances {
		if a.UserID == userID && a.AttendanceDate.Equal(date) {
			return r.join(a), nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r *attendanceRepository) RecordCheckOut(ctx context.Context, id string, update attendance.CheckOutUpdate) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if a.CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	at, photo, lat, lon := update.At, update.PhotoURL, update.Latitude, update.Longitude
	a.CheckOut = &at
	a.CheckOutPhotoURL = &photo
	a.CheckOutLatitude = &lat
	a.CheckOutLongitude = &lon
	a.UpdatedAt = r.s.now()
	r.s.attendances[id] = a
	return r.join(a), nil
}

func (r *attendanceRepository) ListByUser(ctx context.Context, userID string, limit int) ([]attendance.Attendance, error) {
	return r.List(ctx, attendance.Query{Scope: user.Scope{UserID: &userID}, Limit: limit})
}

func (r *attendanceRepository) List(ctx context.Context, q attendance.Query) ([]attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var rows []attendance.Attendance
	for _, a := range r.s.attendances {
		if !r.s.inScope(q.Scope, a.UserID) {
			continue
		}
		if q.From != nil && a.AttendanceDate.Before(*q.From) {
			continue
		}
		if q.To != nil && a.AttendanceDate.After(*q.To) {
			continue
		}
		rows = append(rows, r.join(a))
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].AttendanceDate.Equal(rows[j].AttendanceDate) {
			return rows[i].AttendanceDate.After(rows[j].AttendanceDate)
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows, nil
}

// join fills the user projection. Callers hold the lock.
func (r *attendanceRepository) join(a attendance.Attendance) attendance.Attendance {
	if u, ok := r.s.users[a.UserID]; ok {
		a.UserName = strPtr(u.Name)
		a.UserRole = strPtr(string(u.Role))
		a.OfficeID = r.s.officeOf(u.ID)
	}
	return a
}
