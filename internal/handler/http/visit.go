package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type VisitHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
	ExportPDF(w http.ResponseWriter, r *http.Request)
}

type visitHandlerImpl struct {
	visitService visit.VisitService
}

func NewVisitHandler(visitService visit.VisitService) VisitHandler {
	return &visitHandlerImpl{visitService: visitService}
}

func visitFilter(r *http.Request) visit.ListFilter {
	return visit.ListFilter{
		StartDate:  queryPtr(r, "startDate"),
		EndDate:    queryPtr(r, "endDate"),
		CustomerID: queryPtr(r, "customerId"),
		UserID:     queryPtr(r, "userId"),
	}
}

// Create handles POST /visits
func (h *visitHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req visit.CreateVisitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.visitService.Create(r.Context(), actor.UserID, req)
	if err != nil {
		response.HandleErrorWith(w, err, "Error creating visit")
		return
	}

	response.Created(w, result)
}

// List handles GET /visits
func (h *visitHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.visitService.List(r.Context(), actor, visitFilter(r))
	if err != nil {
		response.HandleErrorWith(w, err, "Error fetching visits")
		return
	}

	response.Success(w, result)
}

// Approve handles POST /visits/{id}/approve
func (h *visitHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req visit.ApproveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.visitService.Approve(r.Context(), actor.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleErrorWith(w, err, "Error approving visit")
		return
	}

	response.WithMessage(w, http.StatusOK, fmt.Sprintf("Visit %s", result.Status), "visit", result)
}

// ExportCSV handles GET /visits/export
func (h *visitHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.visitService.ExportCSV(r.Context(), actor, visitFilter(r), &buf); err != nil {
		response.HandleErrorWith(w, err, "Error exporting CSV")
		return
	}

	setAttachment(w, "text/csv; charset=utf-8", "visits_report.csv")
	_, _ = buf.WriteTo(w)
}

// ExportPDF handles GET /visits/export-pdf
func (h *visitHandlerImpl) ExportPDF(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.visitService.ExportPDF(r.Context(), actor, visitFilter(r), &buf); err != nil {
		response.HandleErrorWith(w, err, "Error exporting PDF")
		return
	}

	setAttachment(w, "application/pdf", "visits_report.pdf")
	_, _ = buf.WriteTo(w)
}
