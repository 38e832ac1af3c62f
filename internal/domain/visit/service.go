package visit

import (
	"context"
	"io"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
)

type VisitService interface {
	// Create validates and records a visit for the caller.
	Create(ctx context.Context, userID string, req CreateVisitRequest) (VisitResponse, error)
	List(ctx context.Context, actor user.Actor, filter ListFilter) ([]VisitResponse, error)
	Approve(ctx context.Context, approverID string, visitID string, req ApproveRequest) (VisitResponse, error)
	ExportCSV(ctx context.Context, actor user.Actor, filter ListFilter, w io.Writer) error
	ExportPDF(ctx context.Context, actor user.Actor, filter ListFilter, w io.Writer) error
}
