package attendance

import "context"

type AttendanceService interface {
	// MarkAttendance records one employee's status for one day
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)

	// ListAttendance returns the history matching the filter; an empty filter returns everything
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceResponse, error)
}
