package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/customer"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	HandleErrorWith(w, err, "An unexpected error occurred")
}

// HandleErrorWith is HandleError with the message used for unexpected
// failures, e.g. "Error checking in".
func HandleErrorWith(w http.ResponseWriter, err error, fallback string) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Geofence and schedule errors carry their numbers in the message
	var attRadius *attendance.RadiusError
	if errors.As(err, &attRadius) {
		BadRequest(w, "OUT_OF_RADIUS", attRadius.Message(), nil)
		return
	}
	var window *attendance.WindowError
	if errors.As(err, &window) {
		BadRequest(w, "OUTSIDE_CHECK_IN_WINDOW", window.Message(), nil)
		return
	}
	var visitRadius *visit.RadiusError
	if errors.As(err, &visitRadius) {
		BadRequest(w, "OUT_OF_RADIUS", visitRadius.Message(), nil)
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrMissingPhoto):
		BadRequest(w, "MISSING_PHOTO", "Photo is required.", nil)
	case errors.Is(err, attendance.ErrMissingLocation), errors.Is(err, visit.ErrMissingLocation):
		BadRequest(w, "MISSING_LOCATION", "GPS Location is required.", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		BadRequest(w, "ALREADY_CHECKED_IN", "Already checked in today", nil)
	case errors.Is(err, attendance.ErrNoCheckInToday):
		BadRequest(w, "NO_CHECK_IN_TODAY", "No check-in record found for today", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		BadRequest(w, "ALREADY_CHECKED_OUT", "Already checked out today", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "ATTENDANCE_NOT_FOUND", "Attendance record not found")

	// Visit and customer domain errors
	case errors.Is(err, visit.ErrMustCheckInFirst):
		Forbidden(w, "MUST_CHECK_IN_FIRST", "You must Clock In (Absen Masuk) first before creating a visit.")
	case errors.Is(err, visit.ErrVisitNotFound):
		NotFound(w, "VISIT_NOT_FOUND", "Visit not found.")
	case errors.Is(err, customer.ErrCustomerNotFound):
		NotFound(w, "CUSTOMER_NOT_FOUND", "Customer not found.")

	// Office and user domain errors
	case errors.Is(err, office.ErrOfficeNotFound):
		NotFound(w, "OFFICE_NOT_FOUND", "Office not found.")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "USER_NOT_FOUND", "User not found.")
	case errors.Is(err, user.ErrUnauthenticated):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "FORBIDDEN", "Insufficient permissions")
	case errors.Is(err, user.ErrOfficeAccessDenied):
		Forbidden(w, "OFFICE_ACCESS_DENIED", "You cannot manage this office")

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "NOTIFICATION_NOT_FOUND", "Notification not found")

	// Upload errors
	case errors.Is(err, file.ErrInvalidFileType):
		BadRequest(w, "INVALID_FILE_TYPE", "Only jpg, jpeg and png photos are allowed", nil)
	case errors.Is(err, file.ErrFileTooLarge):
		BadRequest(w, "FILE_TOO_LARGE", "Photo must not exceed 10 MB", nil)
	case errors.Is(err, file.ErrInvalidImage):
		BadRequest(w, "INVALID_IMAGE", "Photo could not be read", nil)
	case errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, "INVALID_PATH", "Invalid file path", nil)

	// Default, including office.ErrInvalidSchedule which is a configuration fault
	default:
		slog.Error("unexpected error", "message", fallback, "error", err)
		InternalServerError(w, fallback, err)
	}
}
