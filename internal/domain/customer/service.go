package customer

import "context"

type CustomerService interface {
	List(ctx context.Context) ([]CustomerResponse, error)
}
