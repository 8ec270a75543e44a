package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// ClockIn handles POST /attendance/clock-in
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeClockEvent(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.ClockIn(r.Context(), req.ClockEvent())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", attendance.NewAttendanceResponse(result))
}

// ClockOut handles POST /attendance/clock-out
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeClockEvent(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.ClockOut(r.Context(), req.ClockEvent())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock out successful", attendance.NewAttendanceResponse(result))
}

// List handles GET /attendance/employees/{id}
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := employeeIDParam(w, r)
	if !ok {
		return
	}

	attendances, err := h.attendanceService.ListAttendance(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	items := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, a := range attendances {
		items = append(items, attendance.NewAttendanceResponse(a))
	}

	response.Success(w, attendance.ListAttendanceResponse{
		EmployeeID:  employeeID,
		TotalCount:  len(items),
		Attendances: items,
	})
}

func decodeClockEvent(w http.ResponseWriter, r *http.Request) (attendance.ClockEventRequest, bool) {
	var req attendance.ClockEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Failed to decode clock event", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return req, false
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return req, false
	}

	return req, true
}

func employeeIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid employee id", nil)
		return 0, false
	}
	return id, true
}
