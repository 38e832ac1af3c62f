package visit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/customer"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
)

type VisitServiceImpl struct {
	visit.VisitRepository
	customer.CustomerRepository
	attendance.AttendanceRepository
	tx     database.Transactor
	radius func() float64
	loc    *time.Location
	now    func() time.Time
}

// Create implements visit.VisitService.
func (s *VisitServiceImpl) Create(ctx context.Context, userID string, req visit.CreateVisitRequest) (visit.VisitResponse, error) {
	if !req.HasLocation() {
		return visit.VisitResponse{}, visit.ErrMissingLocation
	}
	now := s.now()

	today, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, clock.DateOf(now, s.loc))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return visit.VisitResponse{}, visit.ErrMustCheckInFirst
		}
		return visit.VisitResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if today.CheckIn == nil {
		return visit.VisitResponse{}, visit.ErrMustCheckInFirst
	}

	payload, err := req.Payload()
	if err != nil {
		return visit.VisitResponse{}, err
	}

	lat, lon := *req.Latitude, *req.Longitude
	var created visit.Visit
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.resolveCustomer(ctx, req, lat, lon)
		if err != nil {
			return err
		}

		// A prospect was just placed at the submitted position.
		if !c.IsProvisional() {
			maxRadius := s.radius()
			distance := utils.DistanceMeters(lat, lon, c.Latitude, c.Longitude)
			if distance > maxRadius {
				return &visit.RadiusError{Distance: distance, MaxRadius: maxRadius}
			}
		}

		v := visit.Visit{
			UserID:       userID,
			CustomerID:   c.ID,
			AttendanceID: today.ID,
			Notes:        req.Notes,
			Latitude:     lat,
			Longitude:    lon,
			PhotoURL:     req.PhotoURL,
			Status:       visit.StatusPending,
			VisitTime:    now,
		}
		v.Apply(payload)

		created, err = s.VisitRepository.Create(ctx, v)
		if err != nil {
			return fmt.Errorf("failed to create visit: %w", err)
		}
		return nil
	})
	if err != nil {
		return visit.VisitResponse{}, err
	}

	return visit.NewVisitResponse(created), nil
}

// resolveCustomer prefers the submitted name over the id. An unknown name
// becomes a prospect at the submitted coordinates.
func (s *VisitServiceImpl) resolveCustomer(ctx context.Context, req visit.CreateVisitRequest, lat, lon float64) (customer.Customer, error) {
	if name := req.CustomerNameValue(); name != "" {
		c, err := s.CustomerRepository.FindByName(ctx, name)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, customer.ErrCustomerNotFound) {
			return customer.Customer{}, fmt.Errorf("failed to find customer by name: %w", err)
		}
		c, err = s.CustomerRepository.CreateProspect(ctx, customer.NewProspect(name, lat, lon))
		if err != nil {
			return customer.Customer{}, fmt.Errorf("failed to create prospect: %w", err)
		}
		return c, nil
	}

	c, err := s.CustomerRepository.GetByID(ctx, req.CustomerIDValue())
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			return customer.Customer{}, err
		}
		return customer.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// List implements visit.VisitService.
func (s *VisitServiceImpl) List(ctx context.Context, actor user.Actor, filter visit.ListFilter) ([]visit.VisitResponse, error) {
	rows, err := s.list(ctx, actor, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]visit.VisitResponse, len(rows))
	for i, row := range rows {
		responses[i] = visit.NewVisitResponse(row)
	}
	return responses, nil
}

// Approve implements visit.VisitService.
func (s *VisitServiceImpl) Approve(ctx context.Context, approverID string, visitID string, req visit.ApproveRequest) (visit.VisitResponse, error) {
	if err := req.Validate(); err != nil {
		return visit.VisitResponse{}, err
	}
	status := visit.Status(req.Status)

	var updated visit.Visit
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.VisitRepository.UpdateStatus(ctx, visitID, status)
		if err != nil {
			if errors.Is(err, visit.ErrVisitNotFound) {
				return err
			}
			return fmt.Errorf("failed to update visit status: %w", err)
		}

		_, err = s.VisitRepository.CreateApproval(ctx, visit.Approval{
			VisitID:    visitID,
			ApproverID: approverID,
			Status:     status,
			Note:       req.Note,
		})
		if err != nil {
			return fmt.Errorf("failed to record approval: %w", err)
		}
		return nil
	})
	if err != nil {
		return visit.VisitResponse{}, err
	}

	return visit.NewVisitResponse(updated), nil
}

// ExportCSV implements visit.VisitService.
func (s *VisitServiceImpl) ExportCSV(ctx context.Context, actor user.Actor, filter visit.ListFilter, w io.Writer) error {
	rows, err := s.list(ctx, actor, filter)
	if err != nil {
		return err
	}
	return writeCSV(w, rows, s.loc)
}

// ExportPDF implements visit.VisitService.
func (s *VisitServiceImpl) ExportPDF(ctx context.Context, actor user.Actor, filter visit.ListFilter, w io.Writer) error {
	rows, err := s.list(ctx, actor, filter)
	if err != nil {
		return err
	}
	return writePDF(w, rows, filter, s.loc, s.now())
}

func (s *VisitServiceImpl) list(ctx context.Context, actor user.Actor, filter visit.ListFilter) ([]visit.Visit, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	q := visit.Query{
		Scope:      actor.Scope(),
		UserID:     filter.UserID,
		CustomerID: filter.CustomerID,
	}
	// Filter dates are local calendar days; visit_time is an instant.
	if filter.StartDate != nil {
		d, _ := validator.IsValidDate(*filter.StartDate)
		from := clock.StartOfDay(time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, s.loc), s.loc)
		q.From = &from
	}
	if filter.EndDate != nil {
		d, _ := validator.IsValidDate(*filter.EndDate)
		to := clock.EndOfDay(time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, s.loc), s.loc)
		q.To = &to
	}

	rows, err := s.VisitRepository.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return rows, nil
}

func NewVisitService(
	visitRepo visit.VisitRepository,
	customerRepo customer.CustomerRepository,
	attendanceRepo attendance.AttendanceRepository,
	tx database.Transactor,
	radius func() float64,
	loc *time.Location,
	now func() time.Time,
) visit.VisitService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &VisitServiceImpl{
		VisitRepository:      visitRepo,
		CustomerRepository:   customerRepo,
		AttendanceRepository: attendanceRepo,
		tx:                   tx,
		radius:               radius,
		loc:                  loc,
		now:                  now,
	}
}
