package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/customer"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, name, address, latitude, longitude, is_prospect, created_at, updated_at`

type customerRepositoryImpl struct {
	db *database.DB
}

func NewCustomerRepository(db *database.DB) customer.CustomerRepository {
	return &customerRepositoryImpl{db: db}
}

func scanCustomer(row pgx.Row) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Latitude, &c.Longitude, &c.IsProspect, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// GetByID implements customer.CustomerRepository.
func (r *customerRepositoryImpl) GetByID(ctx context.Context, id string) (customer.Customer, error) {
	if !validID(id) {
		return customer.Customer{}, customer.ErrCustomerNotFound
	}
	q := GetQuerier(ctx, r.db)

	c, err := scanCustomer(q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return customer.Customer{}, customer.ErrCustomerNotFound
		}
		return customer.Customer{}, fmt.Errorf("failed to get customer by id: %w", err)
	}
	return c, nil
}

// FindByName implements customer.CustomerRepository. Verified customers win
// over prospects sharing the name.
func (r *customerRepositoryImpl) FindByName(ctx context.Context, name string) (customer.Customer, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE lower(name) = lower($1)
		ORDER BY is_prospect, created_at
		LIMIT 1
	`

	c, err := scanCustomer(q.QueryRow(ctx, query, strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return customer.Customer{}, customer.ErrCustomerNotFound
		}
		return customer.Customer{}, fmt.Errorf("failed to find customer by name: %w", err)
	}
	return c, nil
}

// CreateProspect implements customer.CustomerRepository.
func (r *customerRepositoryImpl) CreateProspect(ctx context.Context, prospect customer.Customer) (customer.Customer, error) {
	q := GetQuerier(ctx, r.db)

	// customers_prospect_name_key keeps one prospect per lower(name); the
	// loser of a race reads the winner's row.
	insert := `
		INSERT INTO customers (name, address, latitude, longitude, is_prospect)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (lower(name)) WHERE is_prospect DO NOTHING
		RETURNING ` + customerColumns

	name := strings.TrimSpace(prospect.Name)
	c, err := scanCustomer(q.QueryRow(ctx, insert, name, prospect.Address, prospect.Latitude, prospect.Longitude))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return customer.Customer{}, fmt.Errorf("failed to create prospect: %w", err)
	}

	existing := `SELECT ` + customerColumns + ` FROM customers WHERE lower(name) = lower($1) AND is_prospect`
	c, err = scanCustomer(q.QueryRow(ctx, existing, name))
	if err != nil {
		return customer.Customer{}, fmt.Errorf("failed to load existing prospect: %w", err)
	}
	return c, nil
}

// List implements customer.CustomerRepository.
func (r *customerRepositoryImpl) List(ctx context.Context) ([]customer.Customer, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY lower(name)`)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []customer.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}

	return customers, nil
}
