package customer

import "time"

type CustomerResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	IsProspect bool      `json:"isProspect"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewCustomerResponse(c Customer) CustomerResponse {
	return CustomerResponse{
		ID:         c.ID,
		Name:       c.Name,
		Address:    c.Address,
		Latitude:   c.Latitude,
		Longitude:  c.Longitude,
		IsProspect: c.IsProvisional(),
		CreatedAt:  c.CreatedAt,
	}
}
