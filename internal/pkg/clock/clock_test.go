package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, jakarta)
}

func TestParse(t *testing.T) {
	valid := map[string]Minute{
		"08:00": 480,
		"8:00":  480,
		"0:00":  0,
		"00:00": 0,
		"23:59": 1439,
		"12:30": 750,
		"17:05": 1025,
	}
	for in, want := range valid {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	invalid := []string{"", "8", "8:0", "24:00", "08:60", "008:00", "08:00:00", " 08:00", "ab:cd", "-1:00", "08.00"}
	for _, in := range invalid {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidTime, in)
	}
}

func TestMinuteString(t *testing.T) {
	assert.Equal(t, "08:00", Minute(480).String())
	assert.Equal(t, "00:05", Minute(5).String())
	assert.Equal(t, "23:59", Minute(1439).String())
}

func TestMinutesSinceMidnight(t *testing.T) {
	assert.Equal(t, Minute(0), MinutesSinceMidnight(at(0, 0), jakarta))
	assert.Equal(t, Minute(1439), MinutesSinceMidnight(at(23, 59), jakarta))

	// 01:30 UTC is 08:30 in Jakarta
	utc := time.Date(2025, 3, 10, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, Minute(510), MinutesSinceMidnight(utc, jakarta))
}

func TestIsLate(t *testing.T) {
	start := Minute(8 * 60)
	cases := []struct {
		checkIn time.Time
		want    bool
	}{
		{at(7, 30), false},
		{at(8, 0), false},
		{at(8, 14), false},
		{at(8, 15), false},
		{at(8, 16), true},
		{at(10, 0), true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsLate(c.checkIn, jakarta, start, 15), c.checkIn.Format("15:04"))
	}
}

func TestIsLate_Monotonic(t *testing.T) {
	start := Minute(8 * 60)
	seenLate := false
	for m := 0; m < 24*60; m++ {
		late := IsLate(at(m/60, m%60), jakarta, start, 15)
		if seenLate {
			assert.True(t, late, "lateness must not revert at minute %d", m)
		}
		seenLate = seenLate || late
	}
}

func TestIsWithinWindow(t *testing.T) {
	earliest, latest := Minute(6 * 60), Minute(12 * 60)
	assert.False(t, IsWithinWindow(at(5, 59), jakarta, earliest, latest))
	assert.True(t, IsWithinWindow(at(6, 0), jakarta, earliest, latest))
	assert.True(t, IsWithinWindow(at(9, 0), jakarta, earliest, latest))
	assert.True(t, IsWithinWindow(at(12, 0), jakarta, earliest, latest))
	assert.False(t, IsWithinWindow(at(12, 1), jakarta, earliest, latest))
}

func TestOvertimeMinutes(t *testing.T) {
	end := Minute(17 * 60)
	assert.Equal(t, 0, OvertimeMinutes(at(16, 0), jakarta, end))
	assert.Equal(t, 0, OvertimeMinutes(at(17, 0), jakarta, end))
	assert.Equal(t, 45, OvertimeMinutes(at(17, 45), jakarta, end))
}

func TestDayBounds(t *testing.T) {
	now := at(14, 20)
	start := StartOfDay(now, jakarta)
	end := EndOfDay(now, jakarta)

	assert.Equal(t, at(0, 0), start)
	assert.True(t, end.After(now))
	assert.Equal(t, 10, end.Day())
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), DateOf(now, jakarta))
}
