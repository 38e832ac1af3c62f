package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceUserDateKey = "attendances_user_date_key"

const attendanceSelect = `
	SELECT
		a.id, a.user_id, a.attendance_date,
		a.check_in, a.check_in_photo_url, a.check_in_latitude, a.check_in_longitude,
		a.check_out, a.check_out_photo_url, a.check_out_latitude, a.check_out_longitude,
		a.created_at, a.updated_at,
		u.name, u.role, u.office_id
	FROM attendances a
	LEFT JOIN users u ON u.id = a.user_id
`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.UserID, &att.AttendanceDate,
		&att.CheckIn, &att.CheckInPhotoURL, &att.CheckInLatitude, &att.CheckInLongitude,
		&att.CheckOut, &att.CheckOutPhotoURL, &att.CheckOutLatitude, &att.CheckOutLongitude,
		&att.CreatedAt, &att.UpdatedAt,
		&att.UserName, &att.UserRole, &att.OfficeID,
	)
	return att, err
}

func (a *attendanceRepository) getByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}
	return att, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			user_id, attendance_date,
			check_in, check_in_photo_url, check_in_latitude, check_in_longitude
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newAttendance.UserID,
		newAttendance.AttendanceDate,
		newAttendance.CheckIn,
		newAttendance.CheckInPhotoURL,
		newAttendance.CheckInLatitude,
		newAttendance.CheckInLongitude,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, attendanceUserDateKey) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return a.getByID(ctx, id)
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx,
		attendanceSelect+` WHERE a.user_id = $1 AND a.attendance_date = $2`,
		userID, date,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}
	return att, nil
}

// RecordCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) RecordCheckOut(ctx context.Context, id string, update attendance.CheckOutUpdate) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	// The check_out IS NULL guard makes a racing second check-out a no-op.
	query := `
		UPDATE attendances
		SET check_out = $1, check_out_photo_url = $2,
			check_out_latitude = $3, check_out_longitude = $4,
			updated_at = NOW()
		WHERE id = $5 AND check_out IS NULL
	`

	tag, err := q.Exec(ctx, query, update.At, update.PhotoURL, update.Latitude, update.Longitude, id)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to record check-out: %w", err)
	}

	current, err := a.getByID(ctx, id)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if tag.RowsAffected() == 0 {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	return current, nil
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, limit int) ([]attendance.Attendance, error) {
	return a.List(ctx, attendance.Query{
		Scope: userScope(userID),
		Limit: limit,
	})
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Query) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	where, args := scopeClause(filter.Scope, "a.user_id", "u.office_id")
	argIdx := len(args) + 1

	if filter.From != nil {
		where = append(where, fmt.Sprintf("a.attendance_date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		where = append(where, fmt.Sprintf("a.attendance_date <= $%d", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}

	query := attendanceSelect + whereSQL(where) + ` ORDER BY a.attendance_date DESC, a.created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, nil
}
