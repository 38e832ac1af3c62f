package attendance

import (
	"time"
)

// State is the position of a (user, day) pair in the attendance lifecycle.
type State string

const (
	StateNone       State = "NONE"
	StateCheckedIn  State = "CHECKED_IN"
	StateCheckedOut State = "CHECKED_OUT"
)

// Attendance is the single record a user holds for one calendar day.
type Attendance struct {
	ID             string
	UserID         string
	AttendanceDate time.Time // date-only, UTC midnight of the local day

	CheckIn          *time.Time
	CheckInPhotoURL  *string
	CheckInLatitude  *float64
	CheckInLongitude *float64

	CheckOut          *time.Time
	CheckOutPhotoURL  *string
	CheckOutLatitude  *float64
	CheckOutLongitude *float64

	CreatedAt time.Time
	UpdatedAt time.Time

	// Join
	UserName *string
	UserRole *string
	OfficeID *string
}

// StateOf reports the lifecycle state of a, treating nil as StateNone.
func StateOf(a *Attendance) State {
	switch {
	case a == nil || a.CheckIn == nil:
		return StateNone
	case a.CheckOut == nil:
		return StateCheckedIn
	default:
		return StateCheckedOut
	}
}

// CheckOutUpdate carries the fields written by a check-out.
type CheckOutUpdate struct {
	At        time.Time
	PhotoURL  string
	Latitude  float64
	Longitude float64
}
