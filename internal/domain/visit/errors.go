package visit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrMissingLocation  = errors.New("gps location is required")
	ErrMustCheckInFirst = errors.New("you must check in before creating a visit")
	ErrOutOfRadius      = errors.New("outside the allowed customer radius")
	ErrVisitNotFound    = errors.New("visit not found")
)

// RadiusError reports a visit submitted too far from the customer.
type RadiusError struct {
	Distance  float64
	MaxRadius float64
}

func (e *RadiusError) Error() string {
	return fmt.Sprintf("%s: %dm away, max %sm", ErrOutOfRadius, int64(math.Round(e.Distance)),
		strconv.FormatFloat(e.MaxRadius, 'f', -1, 64))
}

func (e *RadiusError) Unwrap() error { return ErrOutOfRadius }

func (e *RadiusError) Message() string {
	return fmt.Sprintf("Out of range! You are %dm away from customer. Max allowed is %sm.",
		int64(math.Round(e.Distance)), strconv.FormatFloat(e.MaxRadius, 'f', -1, 64))
}
