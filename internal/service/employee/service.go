package employee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{employeeRepo: employeeRepo}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	idTaken, emailTaken, err := s.employeeRepo.ExistsByEmployeeIDOrEmail(ctx, req.EmployeeID, req.Email)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if idTaken {
		return employee.EmployeeResponse{}, fmt.Errorf("%w: %s", employee.ErrEmployeeIDExists, req.EmployeeID)
	}
	if emailTaken {
		return employee.EmployeeResponse{}, fmt.Errorf("%w: %s", employee.ErrEmailExists, req.Email)
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		EmployeeID: req.EmployeeID,
		FullName:   req.FullName,
		Email:      req.Email,
		Department: employee.Department(req.Department),
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Created employee", "id", created.ID, "employee_id", created.EmployeeID, "department", created.Department)
	return created.ToResponse(), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	var (
		employees []employee.Employee
		err       error
	)

	if search := strings.TrimSpace(filter.Search); search != "" {
		employees, err = s.employeeRepo.Search(ctx, search)
	} else {
		employees, err = s.employeeRepo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, emp.ToResponse())
	}
	return responses, nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id int64) error {
	if id <= 0 {
		return employee.ErrInvalidID
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("Deleted employee", "id", id)
	return nil
}
