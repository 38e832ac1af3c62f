package office

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/clock"
)

// Default schedule values for offices without explicit settings.
const (
	DefaultWorkStartTime   = "08:00"
	DefaultWorkEndTime     = "17:00"
	DefaultGracePeriod     = 15
	DefaultBlockBeforeTime = "06:00"
	DefaultBlockAfterTime  = "12:00"
)

type Office struct {
	ID        string
	Name      string
	Address   *string
	Latitude  float64
	Longitude float64
	Radius    float64 // geofence radius in meters
	Schedule  Schedule
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Schedule is the parsed work schedule of an office.
type Schedule struct {
	WorkStart          clock.Minute
	WorkEnd            clock.Minute
	GracePeriodMinutes int
	BlockingEnabled    bool
	BlockBefore        clock.Minute
	BlockAfter         clock.Minute
}

// ScheduleSettings is the schedule as stored: "HH:MM" strings.
type ScheduleSettings struct {
	WorkStartTime   string
	WorkEndTime     string
	GracePeriod     int
	EnableBlocking  bool
	BlockBeforeTime string
	BlockAfterTime  string
}

func DefaultSettings() ScheduleSettings {
	return ScheduleSettings{
		WorkStartTime:   DefaultWorkStartTime,
		WorkEndTime:     DefaultWorkEndTime,
		GracePeriod:     DefaultGracePeriod,
		EnableBlocking:  false,
		BlockBeforeTime: DefaultBlockBeforeTime,
		BlockAfterTime:  DefaultBlockAfterTime,
	}
}

// Parse converts stored settings into a Schedule. Any malformed value is a
// configuration error reported as ErrInvalidSchedule.
func (s ScheduleSettings) Parse() (Schedule, error) {
	var sched Schedule
	fields := []struct {
		name  string
		value string
		dst   *clock.Minute
	}{
		{"workStartTime", s.WorkStartTime, &sched.WorkStart},
		{"workEndTime", s.WorkEndTime, &sched.WorkEnd},
		{"blockBeforeTime", s.BlockBeforeTime, &sched.BlockBefore},
		{"blockAfterTime", s.BlockAfterTime, &sched.BlockAfter},
	}
	for _, f := range fields {
		m, err := clock.Parse(f.value)
		if err != nil {
			return Schedule{}, fmt.Errorf("%w: %s: %v", ErrInvalidSchedule, f.name, err)
		}
		*f.dst = m
	}

	if s.GracePeriod < 0 {
		return Schedule{}, fmt.Errorf("%w: gracePeriod must not be negative", ErrInvalidSchedule)
	}
	sched.GracePeriodMinutes = s.GracePeriod
	sched.BlockingEnabled = s.EnableBlocking

	return sched, nil
}

// Settings renders the schedule back to its stored form.
func (s Schedule) Settings() ScheduleSettings {
	return ScheduleSettings{
		WorkStartTime:   s.WorkStart.String(),
		WorkEndTime:     s.WorkEnd.String(),
		GracePeriod:     s.GracePeriodMinutes,
		EnableBlocking:  s.BlockingEnabled,
		BlockBeforeTime: s.BlockBefore.String(),
		BlockAfterTime:  s.BlockAfter.String(),
	}
}

// DefaultSchedule returns the parsed default settings.
func DefaultSchedule() Schedule {
	sched, err := DefaultSettings().Parse()
	if err != nil {
		panic(err)
	}
	return sched
}
