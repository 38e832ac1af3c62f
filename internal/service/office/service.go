package office

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
)

type OfficeServiceImpl struct {
	office.OfficeRepository
}

func NewOfficeService(officeRepo office.OfficeRepository) office.OfficeService {
	return &OfficeServiceImpl{OfficeRepository: officeRepo}
}

// GetSchedule implements office.OfficeService. Members of the office and
// admins may read it.
func (s *OfficeServiceImpl) GetSchedule(ctx context.Context, actor user.Actor, officeID string) (office.ScheduleResponse, error) {
	member := actor.OfficeID != nil && *actor.OfficeID == officeID
	if !member && !actor.CanManageOffice(officeID) {
		return office.ScheduleResponse{}, user.ErrOfficeAccessDenied
	}

	o, err := s.OfficeRepository.GetByID(ctx, officeID)
	if err != nil {
		if errors.Is(err, office.ErrOfficeNotFound) {
			return office.ScheduleResponse{}, err
		}
		return office.ScheduleResponse{}, fmt.Errorf("failed to get office: %w", err)
	}
	return office.NewScheduleResponse(o), nil
}

// UpdateSchedule implements office.OfficeService.
func (s *OfficeServiceImpl) UpdateSchedule(ctx context.Context, actor user.Actor, officeID string, req office.UpdateScheduleRequest) (office.ScheduleResponse, error) {
	if !actor.CanManageOffice(officeID) {
		return office.ScheduleResponse{}, user.ErrOfficeAccessDenied
	}
	if err := req.Validate(); err != nil {
		return office.ScheduleResponse{}, err
	}

	o, err := s.OfficeRepository.UpdateSchedule(ctx, officeID, req.Settings())
	if err != nil {
		if errors.Is(err, office.ErrOfficeNotFound) {
			return office.ScheduleResponse{}, err
		}
		return office.ScheduleResponse{}, fmt.Errorf("failed to update office schedule: %w", err)
	}
	return office.NewScheduleResponse(o), nil
}
