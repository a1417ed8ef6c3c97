package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
)

// Attendance owns the attendance history shown under the active filter.
type Attendance struct {
	status
	api API
	now func() time.Time

	mu      sync.RWMutex
	records []attendance.AttendanceResponse
}

func NewAttendance(api API) *Attendance {
	return &Attendance{api: api, now: time.Now, records: []attendance.AttendanceResponse{}}
}

// Records returns a copy of the history, most recent first.
func (s *Attendance) Records() []attendance.AttendanceResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]attendance.AttendanceResponse(nil), s.records...)
}

// FetchFiltered replaces the history with the records matching filter. A
// failure is recorded in Err and leaves the previous history in place.
func (s *Attendance) FetchFiltered(ctx context.Context, filter attendance.AttendanceFilter) {
	s.begin()
	var fetched []attendance.AttendanceResponse
	err := s.api.Get(ctx, attendancePath, filter.Query(), &fetched)
	s.end(err)
	if err != nil {
		slog.Warn("Failed to fetch attendance", "error", err)
		return
	}

	if fetched == nil {
		fetched = []attendance.AttendanceResponse{}
	}
	s.mu.Lock()
	s.records = fetched
	s.mu.Unlock()
}

// FetchAll returns every record without touching the filtered history. A
// failure is recorded in Err and yields an empty result.
func (s *Attendance) FetchAll(ctx context.Context) []attendance.AttendanceResponse {
	s.begin()
	var all []attendance.AttendanceResponse
	err := s.api.Get(ctx, attendancePath, nil, &all)
	s.end(err)
	if err != nil {
		slog.Warn("Failed to fetch all attendance", "error", err)
		return []attendance.AttendanceResponse{}
	}

	if all == nil {
		all = []attendance.AttendanceResponse{}
	}
	return all
}

// Mark validates and submits one record, then prepends it to the history.
func (s *Attendance) Mark(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(s.now()); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.begin()
	var created attendance.AttendanceResponse
	err := s.api.Post(ctx, attendancePath, req, &created)
	s.end(err)
	if err != nil {
		slog.Error("Failed to mark attendance", "employee_id", req.EmployeeID, "date", req.Date, "error", err)
		return attendance.AttendanceResponse{}, err
	}

	s.mu.Lock()
	s.records = append([]attendance.AttendanceResponse{created}, s.records...)
	s.mu.Unlock()
	return created, nil
}
