package postgresql

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
)

//go:embed schema.sql
var schema string

// Migrate creates every table and index the repositories rely on. It is
// idempotent.
func Migrate(ctx context.Context, db *database.DB) error {
	// No arguments, so pgx sends it over the simple protocol and the
	// multi-statement script runs as one batch.
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
