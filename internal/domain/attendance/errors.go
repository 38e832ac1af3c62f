package attendance

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/clock"
)

// Attendance domain errors
var (
	// Validation
	ErrMissingPhoto    = errors.New("photo is required")
	ErrMissingLocation = errors.New("gps location is required")

	// Geofence and schedule
	ErrOutOfRadius          = errors.New("outside the allowed office radius")
	ErrOutsideCheckInWindow = errors.New("outside the allowed check-in window")

	// State conflicts
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrNoCheckInToday    = errors.New("no check-in record found for today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// RadiusError reports a check-in too far from the office center.
type RadiusError struct {
	Distance  float64
	MaxRadius float64
}

func (e *RadiusError) Error() string {
	return fmt.Sprintf("%s: %dm away, max %sm", ErrOutOfRadius, int64(math.Round(e.Distance)), formatMeters(e.MaxRadius))
}

func (e *RadiusError) Unwrap() error { return ErrOutOfRadius }

// Message is the user-facing text.
func (e *RadiusError) Message() string {
	return fmt.Sprintf("You are outside the office radius. You are %dm away from the office. Max allowed is %sm.",
		int64(math.Round(e.Distance)), formatMeters(e.MaxRadius))
}

// WindowError reports a check-in attempted outside the blocking window.
type WindowError struct {
	Earliest clock.Minute
	Latest   clock.Minute
}

func (e *WindowError) Error() string {
	return fmt.Sprintf("%s: allowed %s-%s", ErrOutsideCheckInWindow, e.Earliest, e.Latest)
}

func (e *WindowError) Unwrap() error { return ErrOutsideCheckInWindow }

func (e *WindowError) Message() string {
	return fmt.Sprintf("Check-in is only allowed between %s and %s.", e.Earliest, e.Latest)
}

func formatMeters(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}
