package office

import (
	"testing"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleSettingsParse(t *testing.T) {
	sched, err := DefaultSettings().Parse()
	require.NoError(t, err)
	assert.Equal(t, clock.Minute(480), sched.WorkStart)
	assert.Equal(t, clock.Minute(1020), sched.WorkEnd)
	assert.Equal(t, 15, sched.GracePeriodMinutes)
	assert.False(t, sched.BlockingEnabled)
	assert.Equal(t, DefaultSettings(), sched.Settings())
}

func TestScheduleSettingsParse_Malformed(t *testing.T) {
	cases := []func(s *ScheduleSettings){
		func(s *ScheduleSettings) { s.WorkStartTime = "8am" },
		func(s *ScheduleSettings) { s.WorkEndTime = "25:00" },
		func(s *ScheduleSettings) { s.BlockBeforeTime = "" },
		func(s *ScheduleSettings) { s.BlockAfterTime = "12:5" },
		func(s *ScheduleSettings) { s.GracePeriod = -1 },
	}
	for i, mutate := range cases {
		s := DefaultSettings()
		mutate(&s)
		_, err := s.Parse()
		assert.ErrorIs(t, err, ErrInvalidSchedule, "case %d", i)
	}
}

func TestUpdateScheduleRequestValidate(t *testing.T) {
	valid := UpdateScheduleRequest{
		WorkStartTime:   "07:30",
		WorkEndTime:     "16:30",
		GracePeriod:     10,
		EnableBlocking:  true,
		BlockBeforeTime: "06:00",
		BlockAfterTime:  "09:00",
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.WorkStartTime = "7.30"
	bad.GracePeriod = -5
	bad.BlockBeforeTime = "10:00"
	err := bad.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "workStartTime")
	assert.Contains(t, m, "gracePeriod")
	assert.Contains(t, m, "blockAfterTime")

	reversed := valid
	reversed.WorkEndTime = "07:00"
	require.ErrorAs(t, reversed.Validate(), &verrs)
}
