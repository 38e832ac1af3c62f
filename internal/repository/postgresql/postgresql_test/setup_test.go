package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds the connection shared by repository tests.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. Tests
// are skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn, database.PoolConfig{MaxConns: 5})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	setup := &TestDatabaseSetup{DB: db}
	ctx := context.Background()
	require.NoError(t, postgresql.Migrate(ctx, db))
	require.NoError(t, setup.TruncateAllTables(ctx))
	return setup
}

// TruncateAllTables removes every row so each test starts empty.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"notifications",
		"visit_approvals",
		"visit_products",
		"visits",
		"attendances",
		"customers",
		"users",
		"offices",
	}

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// SeedOffice inserts an office with the default schedule.
func (s *TestDatabaseSetup) SeedOffice(t *testing.T, name string, lat, lon float64) string {
	t.Helper()
	var id string
	err := s.DB.QueryRow(context.Background(),
		`INSERT INTO offices (name, latitude, longitude) VALUES ($1, $2, $3) RETURNING id`,
		name, lat, lon,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// SeedUser inserts a user, optionally assigned to officeID.
func (s *TestDatabaseSetup) SeedUser(t *testing.T, name, role string, officeID *string) string {
	t.Helper()
	var id string
	err := s.DB.QueryRow(context.Background(),
		`INSERT INTO users (name, email, role, office_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		name, name+"@example.com", role, officeID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
