package http

import (
	"net/http"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/customer"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
)

type CustomerHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type customerHandlerImpl struct {
	customerService customer.CustomerService
}

func NewCustomerHandler(customerService customer.CustomerService) CustomerHandler {
	return &customerHandlerImpl{customerService: customerService}
}

// List handles GET /customers
func (h *customerHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.customerService.List(r.Context())
	if err != nil {
		response.HandleErrorWith(w, err, "Error fetching customers")
		return
	}

	response.Success(w, result)
}
