package http

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
	ExportXLSX(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn handles POST /attendance/checkin
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.CheckInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), actor.UserID, req)
	if err != nil {
		response.HandleErrorWith(w, err, "Error checking in")
		return
	}

	response.WithMessage(w, http.StatusCreated, "Check-in successful", "attendance", result)
}

// CheckOut handles POST /attendance/checkout
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.CheckOutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), actor.UserID, req)
	if err != nil {
		response.HandleErrorWith(w, err, "Error checking out")
		return
	}

	response.WithMessage(w, http.StatusOK, "Check-out successful", "attendance", result)
}

// Today handles GET /attendance/today. The body is null before check-in.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Today(r.Context(), actor.UserID)
	if err != nil {
		response.HandleErrorWith(w, err, "Error fetching today's attendance")
		return
	}

	response.Success(w, result)
}

// History handles GET /attendance/history
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.History(r.Context(), actor.UserID)
	if err != nil {
		response.HandleErrorWith(w, err, "Error fetching history")
		return
	}

	response.Success(w, result)
}

func attendanceFilter(r *http.Request) attendance.ListFilter {
	filter := attendance.ListFilter{
		StartDate: queryPtr(r, "startDate"),
		EndDate:   queryPtr(r, "endDate"),
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if limit, err := strconv.Atoi(l); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	return filter
}

// List handles GET /attendance/all
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.List(r.Context(), actor, attendanceFilter(r))
	if err != nil {
		response.HandleErrorWith(w, err, "Error fetching all attendance")
		return
	}

	response.Success(w, result)
}

// ExportCSV handles GET /attendance/export-csv
func (h *attendanceHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Buffer so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := h.attendanceService.ExportCSV(r.Context(), actor, attendanceFilter(r), &buf); err != nil {
		response.HandleErrorWith(w, err, "Error exporting CSV")
		return
	}

	setAttachment(w, "text/csv; charset=utf-8", "attendance_report.csv")
	_, _ = buf.WriteTo(w)
}

// ExportXLSX handles GET /attendance/export-xlsx
func (h *attendanceHandlerImpl) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.attendanceService.ExportXLSX(r.Context(), actor, attendanceFilter(r), &buf); err != nil {
		response.HandleErrorWith(w, err, "Error exporting Excel")
		return
	}

	setAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "attendance_report.xlsx")
	_, _ = buf.WriteTo(w)
}
