package visit

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payload is the purpose-specific part of a visit. Exactly one of
// ServiceVisit, MarketingVisit or BillingVisit.
type Payload interface {
	Purpose() Purpose
	isPayload()
}

// ServiceVisit is a service-only call.
type ServiceVisit struct{}

func (ServiceVisit) Purpose() Purpose { return PurposeServiceOnly }
func (ServiceVisit) isPayload()       {}

// MarketingVisit covers service-and-offering and offering-only calls, the
// only purposes that carry prospect data and product lines.
type MarketingVisit struct {
	WithService    bool
	ProspectStatus *ProspectStatus
	PotentialValue decimal.NullDecimal
	MarketingNotes *string
	FollowUpAt     *time.Time
	Products       []ProductLine
}

func (m MarketingVisit) Purpose() Purpose {
	if m.WithService {
		return PurposeServiceAndOffering
	}
	return PurposeOfferingOnly
}
func (MarketingVisit) isPayload() {}

// BillingVisit is an installment collection call.
type BillingVisit struct{}

func (BillingVisit) Purpose() Purpose { return PurposeBillCollection }
func (BillingVisit) isPayload()       {}

type ProductLine struct {
	Code           ProductCode
	Name           string
	ProspectStatus *ProspectStatus
	PotentialValue decimal.NullDecimal
}

// Apply copies the payload onto v. Marketing fields are cleared for the
// other variants.
func (v *Visit) Apply(p Payload) {
	v.Purpose = p.Purpose()
	v.ProspectStatus = nil
	v.PotentialValue = decimal.NullDecimal{}
	v.MarketingNotes = nil
	v.FollowUpAt = nil
	v.Products = nil

	switch p := p.(type) {
	case MarketingVisit:
		v.ProspectStatus = p.ProspectStatus
		v.PotentialValue = p.PotentialValue
		v.MarketingNotes = p.MarketingNotes
		v.FollowUpAt = p.FollowUpAt
		for _, line := range p.Products {
			v.Products = append(v.Products, Product{
				ProductCode:    line.Code,
				ProductName:    line.Name,
				ProspectStatus: line.ProspectStatus,
				PotentialValue: line.PotentialValue,
			})
		}
	case ServiceVisit, BillingVisit:
	}
}
