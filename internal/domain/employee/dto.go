package employee

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
)

const (
	EmployeeIDMinLength = 3
	EmployeeIDMaxLength = 20
	FullNameMinLength   = 2
	FullNameMaxLength   = 100
)

type CreateEmployeeRequest struct {
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Normalize trims surrounding whitespace from every field.
func (r *CreateEmployeeRequest) Normalize() {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	r.Department = strings.TrimSpace(r.Department)
}

// Validate checks all four fields independently and reports every violation.
func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	switch {
	case validator.IsEmpty(r.EmployeeID):
		errs.Add("employee_id", "Employee ID is required")
	case !validator.LengthBetween(r.EmployeeID, EmployeeIDMinLength, EmployeeIDMaxLength):
		errs.Add("employee_id", fmt.Sprintf("Employee ID must be %d-%d characters", EmployeeIDMinLength, EmployeeIDMaxLength))
	case !validator.IsValidEmployeeID(strings.TrimSpace(r.EmployeeID)):
		errs.Add("employee_id", "Employee ID must be alphanumeric (may include _ or -)")
	}

	switch {
	case validator.IsEmpty(r.FullName):
		errs.Add("full_name", "Full name is required")
	case !validator.LengthBetween(r.FullName, FullNameMinLength, FullNameMaxLength):
		errs.Add("full_name", fmt.Sprintf("Full name must be %d-%d characters", FullNameMinLength, FullNameMaxLength))
	}

	switch {
	case validator.IsEmpty(r.Email):
		errs.Add("email", "Email is required")
	case !validator.IsValidEmail(strings.TrimSpace(r.Email)):
		errs.Add("email", "Invalid email format")
	}

	switch {
	case validator.IsEmpty(r.Department):
		errs.Add("department", "Department is required")
	case !IsValidDepartment(strings.TrimSpace(r.Department)):
		errs.Add("department", "Department must be one of: "+strings.Join(DepartmentNames(), ", "))
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID         int64  `json:"id"`
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	CreatedAt  string `json:"created_at"`
}

// MatchesQuery reports whether the lowercase query is a substring of the
// employee's name, employee ID or email. An empty query matches everything.
func (r EmployeeResponse) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.FullName), q) ||
		strings.Contains(strings.ToLower(r.EmployeeID), q) ||
		strings.Contains(strings.ToLower(r.Email), q)
}

type EmployeeFilter struct {
	Search string `json:"search,omitempty"`
}
