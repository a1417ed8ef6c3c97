package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/handler/http/response"
)

type AttendanceHandler interface {
	Mark(w http.ResponseWriter, r *http.Request)
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

// Mark handles POST /attendance
func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("Failed to decode attendance request", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	created, err := h.attendanceService.MarkAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, created)
}

// List handles GET /attendance?employee_id=&from_date=&to_date=&departments=...
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter, err := attendance.ParseFilter(r.URL.Query())
	if err != nil {
		response.HandleErrorIn(w, response.PartQuery, err)
		return
	}

	records, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleErrorIn(w, response.PartQuery, err)
		return
	}

	response.JSON(w, records)
}
