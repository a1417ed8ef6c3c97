package attendance

import (
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/pkg/dates"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

func (s Status) IsValid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// Attendance is one employee's record for one calendar day. Date carries no
// time component.
type Attendance struct {
	ID         int64
	EmployeeID int64
	Date       time.Time
	Status     Status
	CreatedAt  time.Time
}

func (a Attendance) ToResponse() AttendanceResponse {
	return AttendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Date:       a.Date.Format(dates.Layout),
		Status:     a.Status,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}
