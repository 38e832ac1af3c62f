package http

import (
	"net/http"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetDailyStats returns presence, lateness, overtime and visit counts for a day
	GetDailyStats(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetDailyStats handles GET /attendance/stats
func (h *dashboardHandlerImpl) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	date := r.URL.Query().Get("date") // format: YYYY-MM-DD, default: today

	result, err := h.dashboardService.GetDailyStats(r.Context(), actor, date)
	if err != nil {
		response.HandleErrorWith(w, err, "Error fetching stats")
		return
	}

	response.Success(w, result)
}
