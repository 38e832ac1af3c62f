package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	// CountByRole counts users holding role inside scope. Only the office
	// part of the scope applies.
	CountByRole(ctx context.Context, role Role, scope Scope) (int, error)
	ListByOfficeAndRole(ctx context.Context, officeID string, role Role) ([]User, error)
}
