package dashboard

import (
	"context"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
)

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDailyStats recomputes presence, lateness, overtime and visit counts
	// for one calendar day inside the actor's scope. An empty date means today.
	GetDailyStats(ctx context.Context, actor user.Actor, date string) (*DailyStatsResponse, error)
}
