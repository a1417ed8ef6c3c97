package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id int64) (Employee, error)
	// ExistsByEmployeeIDOrEmail reports which of the two unique keys is already taken.
	ExistsByEmployeeIDOrEmail(ctx context.Context, employeeID, email string) (idTaken bool, emailTaken bool, err error)
	List(ctx context.Context) ([]Employee, error)
	// Search matches query case-insensitively against full name, employee ID and email.
	Search(ctx context.Context, query string) ([]Employee, error)
	Delete(ctx context.Context, id int64) error
}
