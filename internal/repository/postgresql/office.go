package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const officeColumns = `
	id, name, address, latitude, longitude, radius,
	work_start_time, work_end_time, grace_period, enable_blocking,
	block_before_time, block_after_time, created_at, updated_at
`

type officeRepositoryImpl struct {
	db *database.DB
}

func NewOfficeRepository(db *database.DB) office.OfficeRepository {
	return &officeRepositoryImpl{db: db}
}

// scanOffice reads one row of officeColumns and parses its schedule.
func scanOffice(row pgx.Row) (office.Office, error) {
	var o office.Office
	var s office.ScheduleSettings
	if err := row.Scan(
		&o.ID, &o.Name, &o.Address, &o.Latitude, &o.Longitude, &o.Radius,
		&s.WorkStartTime, &s.WorkEndTime, &s.GracePeriod, &s.EnableBlocking,
		&s.BlockBeforeTime, &s.BlockAfterTime, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return office.Office{}, err
	}

	schedule, err := s.Parse()
	if err != nil {
		return office.Office{}, fmt.Errorf("office %s: %w", o.ID, err)
	}
	o.Schedule = schedule
	return o, nil
}

// GetByID implements office.OfficeRepository.
func (r *officeRepositoryImpl) GetByID(ctx context.Context, id string) (office.Office, error) {
	if !validID(id) {
		return office.Office{}, office.ErrOfficeNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + officeColumns + ` FROM offices WHERE id = $1`

	o, err := scanOffice(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return office.Office{}, office.ErrOfficeNotFound
		}
		if errors.Is(err, office.ErrInvalidSchedule) {
			return office.Office{}, err
		}
		return office.Office{}, fmt.Errorf("failed to get office by id: %w", err)
	}
	return o, nil
}

// List implements office.OfficeRepository.
func (r *officeRepositoryImpl) List(ctx context.Context) ([]office.Office, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+officeColumns+` FROM offices ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}
	defer rows.Close()

	var offices []office.Office
	for rows.Next() {
		o, err := scanOffice(rows)
		if err != nil {
			if errors.Is(err, office.ErrInvalidSchedule) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to scan office: %w", err)
		}
		offices = append(offices, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate offices: %w", err)
	}

	return offices, nil
}

// UpdateSchedule implements office.OfficeRepository.
func (r *officeRepositoryImpl) UpdateSchedule(ctx context.Context, id string, settings office.ScheduleSettings) (office.Office, error) {
	if !validID(id) {
		return office.Office{}, office.ErrOfficeNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE offices
		SET work_start_time = $1, work_end_time = $2, grace_period = $3,
			enable_blocking = $4, block_before_time = $5, block_after_time = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING ` + officeColumns

	o, err := scanOffice(q.QueryRow(ctx, query,
		settings.WorkStartTime,
		settings.WorkEndTime,
		settings.GracePeriod,
		settings.EnableBlocking,
		settings.BlockBeforeTime,
		settings.BlockAfterTime,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return office.Office{}, office.ErrOfficeNotFound
		}
		if errors.Is(err, office.ErrInvalidSchedule) {
			return office.Office{}, err
		}
		return office.Office{}, fmt.Errorf("failed to update office schedule: %w", err)
	}
	return o, nil
}
