package office

import (
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/pkg/validator"
)

type ScheduleResponse struct {
	OfficeID        string  `json:"officeId"`
	OfficeName      string  `json:"officeName"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Radius          float64 `json:"radius"`
	WorkStartTime   string  `json:"workStartTime"`
	WorkEndTime     string  `json:"workEndTime"`
	GracePeriod     int     `json:"gracePeriod"`
	EnableBlocking  bool    `json:"enableBlocking"`
	BlockBeforeTime string  `json:"blockBeforeTime"`
	BlockAfterTime  string  `json:"blockAfterTime"`
}

func NewScheduleResponse(o Office) ScheduleResponse {
	s := o.Schedule.Settings()
	return ScheduleResponse{
		OfficeID:        o.ID,
		OfficeName:      o.Name,
		Latitude:        o.Latitude,
		Longitude:       o.Longitude,
		Radius:          o.Radius,
		WorkStartTime:   s.WorkStartTime,
		WorkEndTime:     s.WorkEndTime,
		GracePeriod:     s.GracePeriod,
		EnableBlocking:  s.EnableBlocking,
		BlockBeforeTime: s.BlockBeforeTime,
		BlockAfterTime:  s.BlockAfterTime,
	}
}

type UpdateScheduleRequest struct {
	WorkStartTime   string `json:"workStartTime"`
	WorkEndTime     string `json:"workEndTime"`
	GracePeriod     int    `json:"gracePeriod"`
	EnableBlocking  bool   `json:"enableBlocking"`
	BlockBeforeTime string `json:"blockBeforeTime"`
	BlockAfterTime  string `json:"blockAfterTime"`
}

func (r *UpdateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	times := []struct {
		field string
		value string
	}{
		{"workStartTime", r.WorkStartTime},
		{"workEndTime", r.WorkEndTime},
		{"blockBeforeTime", r.BlockBeforeTime},
		{"blockAfterTime", r.BlockAfterTime},
	}
	parsed := make(map[string]clock.Minute, len(times))
	for _, t := range times {
		m, err := clock.Parse(t.value)
		if err != nil {
			errs.Add(t.field, t.field+" must be in HH:MM format")
			continue
		}
		parsed[t.field] = m
	}

	if r.GracePeriod < 0 {
		errs.Add("gracePeriod", "gracePeriod must not be negative")
	}

	start, okStart := parsed["workStartTime"]
	end, okEnd := parsed["workEndTime"]
	if okStart && okEnd && end <= start {
		errs.Add("workEndTime", "workEndTime must be after workStartTime")
	}

	before, okBefore := parsed["blockBeforeTime"]
	after, okAfter := parsed["blockAfterTime"]
	if r.EnableBlocking && okBefore && okAfter && before > after {
		errs.Add("blockAfterTime", "blockAfterTime must not be earlier than blockBeforeTime")
	}

	return errs.Err()
}

// Settings converts a validated request into stored settings.
func (r *UpdateScheduleRequest) Settings() ScheduleSettings {
	return ScheduleSettings{
		WorkStartTime:   r.WorkStartTime,
		WorkEndTime:     r.WorkEndTime,
		GracePeriod:     r.GracePeriod,
		EnableBlocking:  r.EnableBlocking,
		BlockBeforeTime: r.BlockBeforeTime,
		BlockAfterTime:  r.BlockAfterTime,
	}
}
