package customer

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/customer"
)

type CustomerServiceImpl struct {
	customer.CustomerRepository
}

func NewCustomerService(customerRepo customer.CustomerRepository) customer.CustomerService {
	return &CustomerServiceImpl{CustomerRepository: customerRepo}
}

// List implements customer.CustomerService.
func (s *CustomerServiceImpl) List(ctx context.Context) ([]customer.CustomerResponse, error) {
	customers, err := s.CustomerRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	responses := make([]customer.CustomerResponse, len(customers))
	for i, c := range customers {
		responses[i] = customer.NewCustomerResponse(c)
	}
	return responses, nil
}
