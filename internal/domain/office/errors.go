package office

import "errors"

var (
	ErrOfficeNotFound = errors.New("office not found")
	// ErrInvalidSchedule marks stored schedule values that cannot be parsed.
	ErrInvalidSchedule = errors.New("invalid office schedule configuration")
)
