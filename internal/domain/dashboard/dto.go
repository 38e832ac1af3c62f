package dashboard

// DailyStatsResponse is the per-day summary shown on the supervisor dashboard.
type DailyStatsResponse struct {
	Date            string `json:"date"`
	TotalEmployees  int    `json:"totalEmployees"`
	PresentCount    int    `json:"presentCount"`
	LateCount       int    `json:"lateCount"`
	OvertimeMinutes int    `json:"overtimeMinutes"`
	VisitCount      int    `json:"visitCount"`
}
