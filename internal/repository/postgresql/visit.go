package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const visitSelect = `
	SELECT
		v.id, v.user_id, v.customer_id, v.attendance_id, v.purpose, v.notes,
		v.latitude, v.longitude, v.photo_url, v.status, v.visit_time,
		v.prospect_status, v.potential_value, v.marketing_notes, v.follow_up_at,
		v.created_at, v.updated_at,
		u.name, c.name, u.office_id
	FROM visits v
	LEFT JOIN users u ON u.id = v.user_id
	LEFT JOIN customers c ON c.id = v.customer_id
`

type visitRepositoryImpl struct {
	db *database.DB
}

func NewVisitRepository(db *database.DB) visit.VisitRepository {
	return &visitRepositoryImpl{db: db}
}

func scanVisit(row pgx.Row) (visit.Visit, error) {
	var v visit.Visit
	err := row.Scan(
		&v.ID, &v.UserID, &v.CustomerID, &v.AttendanceID, &v.Purpose, &v.Notes,
		&v.Latitude, &v.Longitude, &v.PhotoURL, &v.Status, &v.VisitTime,
		&v.ProspectStatus, &v.PotentialValue, &v.MarketingNotes, &v.FollowUpAt,
		&v.CreatedAt, &v.UpdatedAt,
		&v.UserName, &v.CustomerName, &v.OfficeID,
	)
	return v, err
}

// Create implements visit.VisitRepository.
func (r *visitRepositoryImpl) Create(ctx context.Context, v visit.Visit) (visit.Visit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO visits (
			user_id, customer_id, attendance_id, purpose, notes,
			latitude, longitude, photo_url, status, visit_time,
			prospect_status, potential_value, marketing_notes, follow_up_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		v.UserID, v.CustomerID, v.AttendanceID, v.Purpose, v.Notes,
		v.Latitude, v.Longitude, v.PhotoURL, v.Status, v.VisitTime,
		v.ProspectStatus, v.PotentialValue, v.MarketingNotes, v.FollowUpAt,
	).Scan(&id)
	if err != nil {
		return visit.Visit{}, fmt.Errorf("failed to create visit: %w", err)
	}

	productQuery := `
		INSERT INTO visit_products (visit_id, product_code, product_name, prospect_status, potential_value)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, p := range v.Products {
		if _, err := q.Exec(ctx, productQuery, id, p.ProductCode, p.ProductName, p.ProspectStatus, p.PotentialValue); err != nil {
			return visit.Visit{}, fmt.Errorf("failed to create visit product %s: %w", p.ProductCode, err)
		}
	}

	return r.GetByID(ctx, id)
}

// GetByID implements visit.VisitRepository.
func (r *visitRepositoryImpl) GetByID(ctx context.Context, id string) (visit.Visit, error) {
	if !validID(id) {
		return visit.Visit{}, visit.ErrVisitNotFound
	}
	q := GetQuerier(ctx, r.db)

	v, err := scanVisit(q.QueryRow(ctx, visitSelect+` WHERE v.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return visit.Visit{}, visit.ErrVisitNotFound
		}
		return visit.Visit{}, fmt.Errorf("failed to get visit by id: %w", err)
	}

	visits := []visit.Visit{v}
	if err := r.attachProducts(ctx, visits); err != nil {
		return visit.Visit{}, err
	}
	return visits[0], nil
}

func (r *visitRepositoryImpl) filter(filter visit.Query) (string, []interface{}) {
	where, args := scopeClause(filter.Scope, "v.user_id", "u.office_id")
	add := func(condition string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(condition, len(args)))
	}
	if filter.UserID != nil {
		add("v.user_id = $%d", *filter.UserID)
	}
	if filter.CustomerID != nil {
		add("v.customer_id = $%d", *filter.CustomerID)
	}
	if filter.From != nil {
		add("v.visit_time >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("v.visit_time <= $%d", *filter.To)
	}
	return whereSQL(where), args
}

// List implements visit.VisitRepository.
func (r *visitRepositoryImpl) List(ctx context.Context, filter visit.Query) ([]visit.Visit, error) {
	if !validIDs(filter.UserID, filter.CustomerID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	where, args := r.filter(filter)
	rows, err := q.Query(ctx, visitSelect+where+` ORDER BY v.visit_time DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	var visits []visit.Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visits: %w", err)
	}

	if err := r.attachProducts(ctx, visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// attachProducts loads the product lines of visits in one query.
func (r *visitRepositoryImpl) attachProducts(ctx context.Context, visits []visit.Visit) error {
	if len(visits) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	ids := make([]string, len(visits))
	index := make(map[string]int, len(visits))
	for i, v := range visits {
		ids[i] = v.ID
		index[v.ID] = i
	}

	query := `
		SELECT id, visit_id, product_code, product_name, prospect_status, potential_value
		FROM visit_products
		WHERE visit_id = ANY($1::uuid[])
		ORDER BY product_code
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load visit products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p visit.Product
		if err := rows.Scan(&p.ID, &p.VisitID, &p.ProductCode, &p.ProductName, &p.ProspectStatus, &p.PotentialValue); err != nil {
			return fmt.Errorf("failed to scan visit product: %w", err)
		}
		i := index[p.VisitID]
		visits[i].Products = append(visits[i].Products, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate visit products: %w", err)
	}
	return nil
}

// Count implements visit.VisitRepository.
func (r *visitRepositoryImpl) Count(ctx context.Context, filter visit.Query) (int, error) {
	if !validIDs(filter.UserID, filter.CustomerID) {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	where, args := r.filter(filter)
	query := `SELECT COUNT(*) FROM visits v LEFT JOIN users u ON u.id = v.user_id` + where

	var count int
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return count, nil
}

// UpdateStatus implements visit.VisitRepository.
func (r *visitRepositoryImpl) UpdateStatus(ctx context.Context, id string, status visit.Status) (visit.Visit, error) {
	if !validID(id) {
		return visit.Visit{}, visit.ErrVisitNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE visits SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return visit.Visit{}, fmt.Errorf("failed to update visit status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return visit.Visit{}, visit.ErrVisitNotFound
	}
	return r.GetByID(ctx, id)
}

// CreateApproval implements visit.VisitRepository.
func (r *visitRepositoryImpl) CreateApproval(ctx context.Context, approval visit.Approval) (visit.Approval, error) {
	if !validID(approval.VisitID) {
		return visit.Approval{}, visit.ErrVisitNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO visit_approvals (visit_id, approver_id, status, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, approval.VisitID, approval.ApproverID, approval.Status, approval.Note).
		Scan(&approval.ID, &approval.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return visit.Approval{}, visit.ErrVisitNotFound
		}
		return visit.Approval{}, fmt.Errorf("failed to create visit approval: %w", err)
	}
	return approval, nil
}
