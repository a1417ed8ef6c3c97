package dashboard

import (
	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// Stats summarises the directory and today's attendance.
type Stats struct {
	TotalEmployees int64           `json:"total_employees"`
	TodayPresent   int64           `json:"today_present"`
	TodayAbsent    int64           `json:"today_absent"`
	TodayTotal     int64           `json:"today_total"`
	AttendanceRate decimal.Decimal `json:"attendance_rate"` // percent of today's marks that are Present
	RecentActivity []Activity      `json:"recent_activity"`
}

// Activity is a recently created attendance record joined with its employee.
type Activity struct {
	ID                 int64             `json:"id"`
	EmployeeID         int64             `json:"employee_id"`
	EmployeeName       string            `json:"employee_name"`
	EmployeeEmployeeID string            `json:"employee_employee_id"`
	Date               string            `json:"date"`
	Status             attendance.Status `json:"status"`
	CreatedAt          string            `json:"created_at"`
}

// AttendanceRate returns present/total as a percentage with one decimal place.
func AttendanceRate(present, total int64) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(present).
		Div(decimal.NewFromInt(total)).
		Mul(decimal.NewFromInt(100)).
		Round(1)
}
