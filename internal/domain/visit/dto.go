package visit

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Amount is a monetary value that accepts a JSON number, a numeric string,
// an empty string or null. Empty and null decode as absent.
type Amount struct {
	decimal.NullDecimal
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte(`""`)) || bytes.Equal(trimmed, []byte("null")) {
		a.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	return a.NullDecimal.UnmarshalJSON(trimmed)
}

type ProductRequest struct {
	ProductCode    string  `json:"productCode"`
	ProductName    string  `json:"productName"`
	ProspectStatus *string `json:"prospectStatus,omitempty"`
	PotentialValue Amount  `json:"potentialValue"`
}

type CreateVisitRequest struct {
	CustomerID     *string          `json:"customerId,omitempty"`
	CustomerName   *string          `json:"customerName,omitempty"`
	Purpose        string           `json:"purpose"`
	Notes          *string          `json:"notes,omitempty"`
	Latitude       *float64         `json:"latitude"`
	Longitude      *float64         `json:"longitude"`
	PhotoURL       *string          `json:"photoUrl,omitempty"`
	ProspectStatus *string          `json:"prospectStatus,omitempty"`
	PotentialValue Amount           `json:"potentialValue"`
	MarketingNotes *string          `json:"marketingNotes,omitempty"`
	FollowUpAt     *string          `json:"followUpAt,omitempty"`
	Products       []ProductRequest `json:"products,omitempty"`
}

// HasLocation reports whether both coordinates were supplied.
func (r *CreateVisitRequest) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// CustomerNameValue returns the trimmed customer name, or "" when absent.
func (r *CreateVisitRequest) CustomerNameValue() string {
	if r.CustomerName == nil {
		return ""
	}
	return strings.TrimSpace(*r.CustomerName)
}

// CustomerIDValue returns the trimmed customer id, or "" when absent.
func (r *CreateVisitRequest) CustomerIDValue() string {
	if r.CustomerID == nil {
		return ""
	}
	return strings.TrimSpace(*r.CustomerID)
}

// Payload validates the request shape and builds the purpose variant.
// Marketing fields sent with a non-marketing purpose are dropped.
func (r *CreateVisitRequest) Payload() (Payload, error) {
	var errs validator.ValidationErrors

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}
	if r.CustomerNameValue() == "" && r.CustomerIDValue() == "" {
		errs.Add("customerId", "customerId or customerName is required")
	}

	var payload Payload
	switch Purpose(r.Purpose) {
	case PurposeServiceOnly:
		payload = ServiceVisit{}
	case PurposeBillCollection:
		payload = BillingVisit{}
	case PurposeServiceAndOffering, PurposeOfferingOnly:
		payload = r.marketing(&errs)
	default:
		errs.Add("purpose", "purpose must be one of SERVICE_ONLY, SERVICE_AND_OFFERING, OFFERING_ONLY, TAGIH_ANGSURAN")
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return payload, nil
}

func (r *CreateVisitRequest) marketing(errs *validator.ValidationErrors) MarketingVisit {
	m := MarketingVisit{
		WithService:    Purpose(r.Purpose) == PurposeServiceAndOffering,
		MarketingNotes: r.MarketingNotes,
	}

	if r.ProspectStatus != nil && *r.ProspectStatus != "" {
		status := ProspectStatus(*r.ProspectStatus)
		if !status.IsValid() {
			errs.Add("prospectStatus", "prospectStatus must be one of NOT_INTERESTED, INTERESTED, IN_PROGRESS, REALIZED")
		} else {
			m.ProspectStatus = &status
		}
	}

	if r.PotentialValue.Valid {
		if r.PotentialValue.Decimal.IsNegative() {
			errs.Add("potentialValue", "potentialValue must not be negative")
		} else {
			m.PotentialValue = r.PotentialValue.NullDecimal
		}
	}

	if r.FollowUpAt != nil && *r.FollowUpAt != "" {
		t, ok := validator.IsValidDateTime(*r.FollowUpAt)
		if !ok {
			errs.Add("followUpAt", "followUpAt must be an ISO8601 timestamp")
		} else {
			m.FollowUpAt = &t
		}
	}

	for i, p := range r.Products {
		field := "products[" + strconv.Itoa(i) + "]"
		code := ProductCode(p.ProductCode)
		catalogName, ok := Catalog[code]
		if !ok {
			errs.Add(field+".productCode", "unknown product code "+p.ProductCode)
			continue
		}

		line := ProductLine{Code: code, Name: strings.TrimSpace(p.ProductName)}
		if line.Name == "" {
			line.Name = catalogName
		}
		if p.ProspectStatus != nil && *p.ProspectStatus != "" {
			status := ProspectStatus(*p.ProspectStatus)
			if !status.IsValid() {
				errs.Add(field+".prospectStatus", "invalid prospect status")
				continue
			}
			line.ProspectStatus = &status
		}
		if p.PotentialValue.Valid {
			if p.PotentialValue.Decimal.IsNegative() {
				errs.Add(field+".potentialValue", "potentialValue must not be negative")
				continue
			}
			line.PotentialValue = p.PotentialValue.NullDecimal
		}
		m.Products = append(m.Products, line)
	}

	return m
}

type ProductResponse struct {
	ID             string              `json:"id"`
	ProductCode    ProductCode         `json:"productCode"`
	ProductName    string              `json:"productName"`
	ProspectStatus *ProspectStatus     `json:"prospectStatus"`
	PotentialValue decimal.NullDecimal `json:"potentialValue"`
}

type NamedRef struct {
	Name string `json:"name"`
}

type VisitResponse struct {
	ID             string              `json:"id"`
	UserID         string              `json:"userId"`
	CustomerID     string              `json:"customerId"`
	AttendanceID   string              `json:"attendanceId"`
	Purpose        Purpose             `json:"purpose"`
	Notes          *string             `json:"notes"`
	Latitude       float64             `json:"latitude"`
	Longitude      float64             `json:"longitude"`
	PhotoURL       *string             `json:"photoUrl"`
	Status         Status              `json:"status"`
	VisitTime      time.Time           `json:"visitTime"`
	ProspectStatus *ProspectStatus     `json:"prospectStatus"`
	PotentialValue decimal.NullDecimal `json:"potentialValue"`
	MarketingNotes *string             `json:"marketingNotes"`
	FollowUpAt     *time.Time          `json:"followUpAt"`
	VisitProducts  []ProductResponse   `json:"visitProducts"`
	User           *NamedRef           `json:"user,omitempty"`
	Customer       *NamedRef           `json:"customer,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func NewVisitResponse(v Visit) VisitResponse {
	resp := VisitResponse{
		ID:             v.ID,
		UserID:         v.UserID,
		CustomerID:     v.CustomerID,
		AttendanceID:   v.AttendanceID,
		Purpose:        v.Purpose,
		Notes:          v.Notes,
		Latitude:       v.Latitude,
		Longitude:      v.Longitude,
		PhotoURL:       v.PhotoURL,
		Status:         v.Status,
		VisitTime:      v.VisitTime,
		ProspectStatus: v.ProspectStatus,
		PotentialValue: v.PotentialValue,
		MarketingNotes: v.MarketingNotes,
		FollowUpAt:     v.FollowUpAt,
		VisitProducts:  make([]ProductResponse, 0, len(v.Products)),
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
	for _, p := range v.Products {
		resp.VisitProducts = append(resp.VisitProducts, ProductResponse{
			ID:             p.ID,
			ProductCode:    p.ProductCode,
			ProductName:    p.ProductName,
			ProspectStatus: p.ProspectStatus,
			PotentialValue: p.PotentialValue,
		})
	}
	if v.UserName != nil {
		resp.User = &NamedRef{Name: *v.UserName}
	}
	if v.CustomerName != nil {
		resp.Customer = &NamedRef{Name: *v.CustomerName}
	}
	return resp
}

// ListFilter is the query string of the listing and export endpoints.
type ListFilter struct {
	StartDate  *string `json:"startDate,omitempty"`
	EndDate    *string `json:"endDate,omitempty"`
	CustomerID *string `json:"customerId,omitempty"`
	UserID     *string `json:"userId,omitempty"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	var start, end time.Time
	var okStart, okEnd bool
	if f.StartDate != nil {
		if start, okStart = validator.IsValidDate(*f.StartDate); !okStart {
			errs.Add("startDate", "startDate must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil {
		if end, okEnd = validator.IsValidDate(*f.EndDate); !okEnd {
			errs.Add("endDate", "endDate must be in YYYY-MM-DD format")
		}
	}
	if okStart && okEnd && end.Before(start) {
		errs.Add("endDate", "endDate must not be before startDate")
	}

	return errs.Err()
}

type ApproveRequest struct {
	Status string  `json:"status"`
	Note   *string `json:"note,omitempty"`
}

func (r *ApproveRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsInSlice(r.Status, []string{string(StatusApproved), string(StatusRejected)}) {
		errs.Add("status", "status must be approved or rejected")
	}
	return errs.Err()
}
