package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/visit"
	"github.com/google/uuid"
)

type visitRepository struct {
	s *Store
}

func (r *visitRepository) Create(ctx context.Context, v visit.Visit) (visit.Visit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v.ID = uuid.New().String()
	v.CreatedAt = r.s.now()
	v.UpdatedAt = v.CreatedAt
	products := make([]visit.Product, len(v.Products))
	for i, p := range v.Products {
		p.ID = uuid.New().String()
		p.VisitID = v.ID
		products[i] = p
	}
	v.Products = products
	r.s.visits[v.ID] = v
	return r.join(v), nil
}

func (r *visitRepository) GetByID(ctx context.Context, id string) (visit.Visit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.visits[id]
	if !ok {
		return visit.Visit{}, visit.ErrVisitNotFound
	}
	return r.join(v), nil
}

func (r *visitRepository) List(ctx context.Context, q visit.Query) ([]visit.Visit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := r.filter(q)
	sort.Slice(rows, func(i, j int) bool { return rows[i].VisitTime.After(rows[j].VisitTime) })
	return rows, nil
}

func (r *visitRepository) Count(ctx context.Context, q visit.Query) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.filter(q)), nil
}

func (r *visitRepository) UpdateStatus(ctx context.Context, id string, status visit.Status) (visit.Visit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.visits[id]
	if !ok {
		return visit.Visit{}, visit.ErrVisitNotFound
	}
	v.Status = status
	v.UpdatedAt = r.s.now()
	r.s.visits[id] = v
	return r.join(v), nil
}

func (r *visitRepository) CreateApproval(ctx context.Context, approval visit.Approval) (visit.Approval, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.visits[approval.VisitID]; !ok {
		return visit.Approval{}, visit.ErrVisitNotFound
	}
	approval.ID = uuid.New().String()
	approval.CreatedAt = r.s.now()
	r.s.approvals = append(r.s.approvals, approval)
	return approval, nil
}

// filter applies q. Callers hold the lock.
func (r *visitRepository) filter(q visit.Query) []visit.Visit {
	var rows []visit.Visit
	for _, v := range r.s.visits {
		if !r.s.inScope(q.Scope, v.UserID) {
			continue
		}
		if q.UserID != nil && v.UserID != *q.UserID {
			continue
		}
		if q.CustomerID != nil && v.CustomerID != *q.CustomerID {
			continue
		}
		if q.From != nil && v.VisitTime.Before(*q.From) {
			continue
		}
		if q.To != nil && v.VisitTime.After(*q.To) {
			continue
		}
		rows = append(rows, r.join(v))
	}
	return rows
}

// join fills the user and customer projection. Callers hold the lock.
func (r *visitRepository) join(v visit.Visit) visit.Visit {
	if u, ok := r.s.users[v.UserID]; ok {
		v.UserName = strPtr(u.Name)
		v.OfficeID = r.s.officeOf(u.ID)
	}
	if c, ok := r.s.customers[v.CustomerID]; ok {
		v.CustomerName = strPtr(c.Name)
	}
	v.Products = append([]visit.Product(nil), v.Products...)
	return v
}
