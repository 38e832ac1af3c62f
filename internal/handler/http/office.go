package http

import (
	"net/http"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type OfficeHandler interface {
	GetSchedule(w http.ResponseWriter, r *http.Request)
	UpdateSchedule(w http.ResponseWriter, r *http.Request)
}

type officeHandlerImpl struct {
	officeService office.OfficeService
}

func NewOfficeHandler(officeService office.OfficeService) OfficeHandler {
	return &officeHandlerImpl{officeService: officeService}
}

// GetSchedule handles GET /offices/{id}/schedule
func (h *officeHandlerImpl) GetSchedule(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.officeService.GetSchedule(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleErrorWith(w, err, "Error fetching schedule")
		return
	}

	response.Success(w, result)
}

// UpdateSchedule handles PUT /offices/{id}/schedule
func (h *officeHandlerImpl) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req office.UpdateScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.officeService.UpdateSchedule(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleErrorWith(w, err, "Error updating schedule")
		return
	}

	response.WithMessage(w, http.StatusOK, "Schedule updated", "schedule", result)
}
