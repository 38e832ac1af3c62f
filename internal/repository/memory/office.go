package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/office"
)

type officeRepository struct {
	s *Store
}

func (r *officeRepository) GetByID(ctx context.Context, id string) (office.Office, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.offices[id]
	if !ok {
		return office.Office{}, office.ErrOfficeNotFound
	}
	return hydrateOffice(rec)
}

func (r *officeRepository) List(ctx context.Context) ([]office.Office, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	offices := make([]office.Office, 0, len(r.s.offices))
	for _, rec := range r.s.offices {
		o, err := hydrateOffice(rec)
		if err != nil {
			return nil, err
		}
		offices = append(offices, o)
	}
	sort.Slice(offices, func(i, j int) bool { return offices[i].Name < offices[j].Name })
	return offices, nil
}

func (r *officeRepository) UpdateSchedule(ctx context.Context, id string, settings office.ScheduleSettings) (office.Office, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.offices[id]
	if !ok {
		return office.Office{}, office.ErrOfficeNotFound
	}
	rec.settings = settings
	rec.office.UpdatedAt = r.s.now()
	r.s.offices[id] = rec
	return hydrateOffice(rec)
}

func hydrateOffice(rec officeRecord) (office.Office, error) {
	sched, err := rec.settings.Parse()
	if err != nil {
		return office.Office{}, fmt.Errorf("office %s: %w", rec.office.ID, err)
	}
	o := rec.office
	o.Schedule = sched
	return o, nil
}
