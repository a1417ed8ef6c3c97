package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create stores a record; a second record for the same employee and day fails with ErrAlreadyMarked
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// ExistsForEmployeeOnDate is checked before Create to report duplicates without relying on the constraint
	ExistsForEmployeeOnDate(ctx context.Context, employeeID int64, date time.Time) (bool, error)

	// List returns records matching every set filter field, newest day first
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)
}
