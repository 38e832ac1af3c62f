package office

import (
	"context"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
)

type OfficeService interface {
	GetSchedule(ctx context.Context, actor user.Actor, officeID string) (ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, actor user.Actor, officeID string, req UpdateScheduleRequest) (ScheduleResponse, error)
}
