// Package clock converts office schedule settings and wall-clock timestamps
// into minute-of-day values and answers lateness, overtime and check-in
// window questions against them.
package clock

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidTime is returned when a schedule value is not H:MM or HH:MM.
var ErrInvalidTime = errors.New("invalid time of day")

// Minute is a minute of the day in [0, 1439].
type Minute int

var timeOfDayRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// Parse reads an "H:MM" or "HH:MM" value strictly.
func Parse(s string) (Minute, error) {
	m := timeOfDayRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return Minute(hours*60 + minutes), nil
}

// String renders the minute as zero-padded HH:MM.
func (m Minute) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// MinutesSinceMidnight returns the minute of day of t in loc.
func MinutesSinceMidnight(t time.Time, loc *time.Location) Minute {
	local := t.In(loc)
	return Minute(local.Hour()*60 + local.Minute())
}

// IsLate reports whether checkIn falls strictly after workStart plus the grace period.
func IsLate(checkIn time.Time, loc *time.Location, workStart Minute, graceMinutes int) bool {
	return MinutesSinceMidnight(checkIn, loc) > workStart+Minute(graceMinutes)
}

// IsWithinWindow reports whether now lies in [earliest, latest], both ends inclusive.
func IsWithinWindow(now time.Time, loc *time.Location, earliest, latest Minute) bool {
	m := MinutesSinceMidnight(now, loc)
	return m >= earliest && m <= latest
}

// OvertimeMinutes returns how far checkOut runs past workEnd, never negative.
func OvertimeMinutes(checkOut time.Time, loc *time.Location, workEnd Minute) int {
	diff := int(MinutesSinceMidnight(checkOut, loc) - workEnd)
	if diff < 0 {
		return 0
	}
	return diff
}

// StartOfDay returns local midnight of the calendar day containing t.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last nanosecond of the calendar day containing t.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DateOf truncates t to its calendar date in loc, expressed as a UTC midnight
// value suitable for date-only storage columns.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
