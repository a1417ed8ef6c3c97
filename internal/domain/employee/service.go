package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// CreateEmployee validates and stores a new employee; employee_id and email must be unique
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// ListEmployees lists every employee, or the search matches when filter.Search is set
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)

	// DeleteEmployee removes an employee; attendance history goes with it
	DeleteEmployee(ctx context.Context, id int64) error
}
