package customer

import (
	"fmt"
	"strings"
	"time"
)

// ProspectTag marks the address of a customer created from a first visit.
const ProspectTag = "[PROSPEK]"

type Customer struct {
	ID         string
	Name       string
	Address    string
	Latitude   float64
	Longitude  float64
	IsProspect bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsProvisional reports whether the customer still awaits verified details.
func (c *Customer) IsProvisional() bool {
	return c.IsProspect || strings.HasPrefix(c.Address, ProspectTag)
}

// NewProspect builds a provisional customer placed at the visit location.
func NewProspect(name string, lat, lon float64) Customer {
	return Customer{
		Name:       strings.TrimSpace(name),
		Address:    fmt.Sprintf("%s Lokasi kunjungan pertama (%.6f, %.6f)", ProspectTag, lat, lon),
		Latitude:   lat,
		Longitude:  lon,
		IsProspect: true,
	}
}
