package employee

import (
	"time"
)

type Employee struct {
	ID         int64
	EmployeeID string
	FullName   string
	Email      string
	Department Department
	CreatedAt  time.Time
}

type Department string

const (
	DepartmentEngineering Department = "Engineering"
	DepartmentProduct     Department = "Product"
	DepartmentHR          Department = "HR"
	DepartmentSales       Department = "Sales"
	DepartmentMarketing   Department = "Marketing"
	DepartmentDesign      Department = "Design"
	DepartmentOperations  Department = "Operations"
	DepartmentFinance     Department = "Finance"
)

// Departments returns the fixed department enumeration in display order.
func Departments() []Department {
	return []Department{
		DepartmentEngineering,
		DepartmentProduct,
		DepartmentHR,
		DepartmentSales,
		DepartmentMarketing,
		DepartmentDesign,
		DepartmentOperations,
		DepartmentFinance,
	}
}

func DepartmentNames() []string {
	depts := Departments()
	names := make([]string, 0, len(depts))
	for _, d := range depts {
		names = append(names, string(d))
	}
	return names
}

func IsValidDepartment(name string) bool {
	for _, d := range Departments() {
		if string(d) == name {
			return true
		}
	}
	return false
}

// ToResponse converts the entity to its wire shape.
func (e Employee) ToResponse() EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		FullName:   e.FullName,
		Email:      e.Email,
		Department: string(e.Department),
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}
