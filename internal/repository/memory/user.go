package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role user.Role, scope user.Scope) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, u := range r.s.users {
		if u.Role == role && r.s.inScope(scope, u.ID) {
			count++
		}
	}
	return count, nil
}

func (r *userRepository) ListByOfficeAndRole(ctx context.Context, officeID string, role user.Role) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var users []user.User
	for _, u := range r.s.users {
		if u.Role == role && u.OfficeID != nil && *u.OfficeID == officeID {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}
