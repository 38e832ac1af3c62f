package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/customer"
	"github.com/google/uuid"
)

type customerRepository struct {
	s *Store
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (customer.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return customer.Customer{}, customer.ErrCustomerNotFound
	}
	return c, nil
}

func (r *customerRepository) FindByName(ctx context.Context, name string) (customer.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if c, ok := r.findByName(name, false); ok {
		return c, nil
	}
	return customer.Customer{}, customer.ErrCustomerNotFound
}

// CreateProspect mirrors the partial unique index on lower(name) for
// prospects: a concurrent duplicate resolves to the existing row.
func (r *customerRepository) CreateProspect(ctx context.Context, prospect customer.Customer) (customer.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.findByName(prospect.Name, true); ok {
		return existing, nil
	}
	prospect.ID = uuid.New().String()
	prospect.IsProspect = true
	prospect.CreatedAt = r.s.now()
	prospect.UpdatedAt = prospect.CreatedAt
	r.s.customers[prospect.ID] = prospect
	return prospect, nil
}

func (r *customerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	customers := make([]customer.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		customers = append(customers, c)
	}
	sort.Slice(customers, func(i, j int) bool {
		return strings.ToLower(customers[i].Name) < strings.ToLower(customers[j].Name)
	})
	return customers, nil
}

// findByName matches case-insensitively on the trimmed name, preferring
// verified customers over prospects. Callers hold the lock.
func (r *customerRepository) findByName(name string, prospectsOnly bool) (customer.Customer, bool) {
	name = strings.TrimSpace(name)
	var found customer.Customer
	ok := false
	for _, c := range r.s.customers {
		if prospectsOnly && !c.IsProspect {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(c.Name), name) {
			continue
		}
		if !c.IsProspect {
			return c, true
		}
		found, ok = c, true
	}
	return found, ok
}
