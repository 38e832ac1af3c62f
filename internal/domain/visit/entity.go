package visit

import (
	"time"

	"github.com/shopspring/decimal"
)

type Purpose string

const (
	PurposeServiceOnly        Purpose = "SERVICE_ONLY"
	PurposeServiceAndOffering Purpose = "SERVICE_AND_OFFERING"
	PurposeOfferingOnly       Purpose = "OFFERING_ONLY"
	PurposeBillCollection     Purpose = "TAGIH_ANGSURAN"
)

func AllPurposes() []Purpose {
	return []Purpose{PurposeServiceOnly, PurposeServiceAndOffering, PurposeOfferingOnly, PurposeBillCollection}
}

// Label is the Indonesian display name used in reports.
func (p Purpose) Label() string {
	switch p {
	case PurposeServiceOnly:
		return "Servis Saja"
	case PurposeServiceAndOffering:
		return "Servis & Penawaran"
	case PurposeOfferingOnly:
		return "Penawaran Saja"
	case PurposeBillCollection:
		return "Tagih Angsuran"
	}
	return string(p)
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type ProspectStatus string

const (
	ProspectNotInterested ProspectStatus = "NOT_INTERESTED"
	ProspectInterested    ProspectStatus = "INTERESTED"
	ProspectInProgress    ProspectStatus = "IN_PROGRESS"
	ProspectRealized      ProspectStatus = "REALIZED"
)

func (s ProspectStatus) IsValid() bool {
	switch s {
	case ProspectNotInterested, ProspectInterested, ProspectInProgress, ProspectRealized:
		return true
	}
	return false
}

type ProductCode string

const (
	ProductTabunganUmum      ProductCode = "TAB_UMUM"
	ProductTabunganBerjangka ProductCode = "TAB_BERJANGKA"
	ProductDeposito          ProductCode = "DEP_OS"
	ProductKreditMikro       ProductCode = "KREDIT_MIKRO"
	ProductKreditKonsumtif   ProductCode = "KREDIT_KONSUMTIF"
	ProductOther             ProductCode = "OTHER"
)

// Catalog is the fixed set of products a marketing visit may offer.
var Catalog = map[ProductCode]string{
	ProductTabunganUmum:      "Tabungan Umum",
	ProductTabunganBerjangka: "Tabungan Berjangka",
	ProductDeposito:          "Deposito",
	ProductKreditMikro:       "Kredit Mikro",
	ProductKreditKonsumtif:   "Kredit Konsumtif",
	ProductOther:             "Lainnya",
}

type Product struct {
	ID             string
	VisitID        string
	ProductCode    ProductCode
	ProductName    string
	ProspectStatus *ProspectStatus
	PotentialValue decimal.NullDecimal
}

type Visit struct {
	ID           string
	UserID       string
	CustomerID   string
	AttendanceID string
	Purpose      Purpose
	Notes        *string
	Latitude     float64
	Longitude    float64
	PhotoURL     *string
	Status       Status
	VisitTime    time.Time

	// Marketing
	ProspectStatus *ProspectStatus
	PotentialValue decimal.NullDecimal
	MarketingNotes *string
	FollowUpAt     *time.Time
	Products       []Product

	CreatedAt time.Time
	UpdatedAt time.Time

	// Join
	UserName     *string
	CustomerName *string
	OfficeID     *string
}

// Approval is the audit row of a supervisor decision.
type Approval struct {
	ID         string
	VisitID    string
	ApproverID string
	Status     Status
	Note       *string
	CreatedAt  time.Time
}
