package customer

import "context"

type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (Customer, error)
	// FindByName matches the exact name case-insensitively.
	FindByName(ctx context.Context, name string) (Customer, error)
	// CreateProspect inserts a provisional customer. When a concurrent writer
	// already created a prospect with the same name, that row is returned.
	CreateProspect(ctx context.Context, prospect Customer) (Customer, error)
	List(ctx context.Context) ([]Customer, error)
}
