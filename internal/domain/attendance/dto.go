package attendance

import (
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
)

// GPSAccuracyBypassMeters is the reported accuracy at or above which the
// office radius is not enforced on check-in. Such readings usually come from
// desktop browsers without a real GPS fix.
const GPSAccuracyBypassMeters = 1000

const (
	HistoryLimit = 30
	ListLimit    = 100
)

type CheckInRequest struct {
	PhotoURL    string   `json:"photoUrl"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	GPSAccuracy *float64 `json:"gpsAccuracy,omitempty"`
}

// Validate checks presence in the order the caller should fix them, then
// coordinate ranges.
func (r *CheckInRequest) Validate() error {
	if validator.IsEmpty(r.PhotoURL) {
		return ErrMissingPhoto
	}
	if r.Latitude == nil || r.Longitude == nil {
		return ErrMissingLocation
	}
	return validateCoordinates(*r.Latitude, *r.Longitude)
}

// BypassRadius reports whether the reported accuracy is too coarse to
// enforce the office radius.
func (r *CheckInRequest) BypassRadius() bool {
	return r.GPSAccuracy != nil && *r.GPSAccuracy >= GPSAccuracyBypassMeters
}

type CheckOutRequest struct {
	PhotoURL  string   `json:"photoUrl"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *CheckOutRequest) Validate() error {
	if validator.IsEmpty(r.PhotoURL) {
		return ErrMissingPhoto
	}
	if r.Latitude == nil || r.Longitude == nil {
		return ErrMissingLocation
	}
	return validateCoordinates(*r.Latitude, *r.Longitude)
}

func validateCoordinates(lat, lon float64) error {
	var errs validator.ValidationErrors
	if !validator.IsValidLatitude(lat) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if !validator.IsValidLongitude(lon) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}
	return errs.Err()
}

type UserSummary struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type AttendanceResponse struct {
	ID                string       `json:"id"`
	UserID            string       `json:"userId"`
	AttendanceDate    string       `json:"attendanceDate"`
	CheckIn           *time.Time   `json:"checkIn"`
	CheckInPhotoURL   *string      `json:"checkInPhotoUrl"`
	CheckInLatitude   *float64     `json:"checkInLatitude"`
	CheckInLongitude  *float64     `json:"checkInLongitude"`
	CheckOut          *time.Time   `json:"checkOut"`
	CheckOutPhotoURL  *string      `json:"checkOutPhotoUrl"`
	CheckOutLatitude  *float64     `json:"checkOutLatitude"`
	CheckOutLongitude *float64     `json:"checkOutLongitude"`
	State             State        `json:"state"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
	User              *UserSummary `json:"user,omitempty"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:                a.ID,
		UserID:            a.UserID,
		AttendanceDate:    a.AttendanceDate.Format("2006-01-02"),
		CheckIn:           a.CheckIn,
		CheckInPhotoURL:   a.CheckInPhotoURL,
		CheckInLatitude:   a.CheckInLatitude,
		CheckInLongitude:  a.CheckInLongitude,
		CheckOut:          a.CheckOut,
		CheckOutPhotoURL:  a.CheckOutPhotoURL,
		CheckOutLatitude:  a.CheckOutLatitude,
		CheckOutLongitude: a.CheckOutLongitude,
		State:             StateOf(&a),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	if a.UserName != nil {
		resp.User = &UserSummary{Name: *a.UserName}
		if a.UserRole != nil {
			resp.User.Role = *a.UserRole
		}
	}
	return resp
}

// ListFilter is the query string of the list and export endpoints.
type ListFilter struct {
	StartDate *string `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"endDate,omitempty"`   // YYYY-MM-DD
	Limit     int     `json:"limit,omitempty"`
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
	if f.Limit < 0 {
		errs.Add("limit", "limit must not be negative")
	}

	return errs.Err()
}

// Range returns the parsed date bounds of a validated filter.
func (f *ListFilter) Range() (from, to *time.Time) {
	if f.StartDate != nil {
		if t, ok := validator.IsValidDate(*f.StartDate); ok {
			from = &t
		}
	}
	if f.EndDate != nil {
		if t, ok := validator.IsValidDate(*f.EndDate); ok {
			to = &t
		}
	}
	return from, to
}
