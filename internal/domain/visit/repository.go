package visit

import (
	"context"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
)

// Query selects visits for listings, exports and counts.
type Query struct {
	Scope      user.Scope
	UserID     *string
	CustomerID *string
	From       *time.Time // inclusive, on visit_time
	To         *time.Time // inclusive, on visit_time
}

type VisitRepository interface {
	// Create inserts the visit and its product lines. Callers wrap it in a
	// transaction so both land together.
	Create(ctx context.Context, v Visit) (Visit, error)
	GetByID(ctx context.Context, id string) (Visit, error)
	// List returns visits joined with user, customer and products, newest first.
	List(ctx context.Context, q Query) ([]Visit, error)
	Count(ctx context.Context, q Query) (int, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Visit, error)
	CreateApproval(ctx context.Context, approval Approval) (Approval, error)
}
