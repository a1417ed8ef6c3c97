package attendance

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/dates"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type MarkAttendanceRequest struct {
	EmployeeID int64  `json:"employee_id"`
	Date       string `json:"date"` // YYYY-MM-DD
	Status     Status `json:"status"`
}

// Validate checks the request against the calendar day of now.
func (r *MarkAttendanceRequest) Validate(now time.Time) error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs.Add("employee_id", "employee_id is required")
	}

	switch {
	case validator.IsEmpty(r.Date):
		errs.Add("date", "Date is required")
	case !isDay(r.Date):
		errs.Add("date", "date must be in YYYY-MM-DD format")
	case dates.IsFuture(r.Date, now):
		errs.Add("date", "Date cannot be in the future")
	}

	if !r.Status.IsValid() {
		errs.Add("status", "status must be one of: Present, Absent")
	}

	return errs.Err()
}

// ParsedDate returns the request date as a UTC calendar day.
func (r *MarkAttendanceRequest) ParsedDate() (time.Time, error) {
	return time.Parse(dates.Layout, dates.Normalize(r.Date))
}

type AttendanceResponse struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	Date       string `json:"date"`
	Status     Status `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// Day is the record's calendar day with any time suffix dropped.
func (r AttendanceResponse) Day() string {
	return dates.Normalize(r.Date)
}

// AttendanceFilter is the conjunction of employee, department set and date range.
// A zero field places no constraint on its dimension.
type AttendanceFilter struct {
	EmployeeID  *int64   `json:"employee_id,omitempty"`
	FromDate    string   `json:"from_date,omitempty"` // YYYY-MM-DD, inclusive
	ToDate      string   `json:"to_date,omitempty"`   // YYYY-MM-DD, inclusive
	Departments []string `json:"departments,omitempty"`
}

func (f AttendanceFilter) IsEmpty() bool {
	return f.EmployeeID == nil && f.FromDate == "" && f.ToDate == "" && len(f.Departments) == 0
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeID != nil && *f.EmployeeID <= 0 {
		errs.Add("employee_id", "employee_id must be a positive number")
	}

	if f.FromDate != "" && !isDay(f.FromDate) {
		errs.Add("from_date", "from_date must be in YYYY-MM-DD format")
	}
	if f.ToDate != "" && !isDay(f.ToDate) {
		errs.Add("to_date", "to_date must be in YYYY-MM-DD format")
	}
	if isDay(f.FromDate) && isDay(f.ToDate) && f.FromDate > f.ToDate {
		errs.Add("from_date", ErrInvalidDateRange.Error())
	}

	for _, d := range f.Departments {
		if !employee.IsValidDepartment(d) {
			errs.Add("departments", "unknown department: "+d)
			break
		}
	}

	return errs.Err()
}

// Query encodes the filter; the department set becomes repeated parameters.
func (f AttendanceFilter) Query() url.Values {
	q := url.Values{}
	if f.EmployeeID != nil {
		q.Set("employee_id", strconv.FormatInt(*f.EmployeeID, 10))
	}
	if f.FromDate != "" {
		q.Set("from_date", f.FromDate)
	}
	if f.ToDate != "" {
		q.Set("to_date", f.ToDate)
	}
	for _, d := range f.Departments {
		q.Add("departments", d)
	}
	return q
}

// ParseFilter reads a filter from query parameters. Blank values are ignored.
func ParseFilter(q url.Values) (AttendanceFilter, error) {
	var (
		f    AttendanceFilter
		errs validator.ValidationErrors
	)

	if raw := strings.TrimSpace(q.Get("employee_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs.Add("employee_id", "employee_id must be a number")
		} else {
			f.EmployeeID = &id
		}
	}
	f.FromDate = strings.TrimSpace(q.Get("from_date"))
	f.ToDate = strings.TrimSpace(q.Get("to_date"))
	for _, d := range q["departments"] {
		if d = strings.TrimSpace(d); d != "" {
			f.Departments = append(f.Departments, d)
		}
	}

	if len(errs) > 0 {
		return f, errs
	}
	return f, nil
}

func isDay(s string) bool {
	_, ok := validator.IsValidDate(s)
	return ok
}
