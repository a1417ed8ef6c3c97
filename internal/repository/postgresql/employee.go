package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, employee_id, full_name, email, department, created_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (employee_id, full_name, email, department)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.EmployeeID, newEmployee.FullName, newEmployee.Email, newEmployee.Department,
	))
	if err != nil {
		if constraint, ok := constraintViolation(err, uniqueViolation); ok {
			if constraint == "employees_email_key" {
				return employee.Employee{}, employee.ErrEmailExists
			}
			return employee.Employee{}, employee.ErrEmployeeIDExists
		}
		return employee.Employee{}, fmt.Errorf("insert employee: %w", err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	found, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("get employee %d: %w", id, err)
	}
	return found, nil
}

// ExistsByEmployeeIDOrEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByEmployeeIDOrEmail(ctx context.Context, employeeID, email string) (bool, bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT
			EXISTS(SELECT 1 FROM employees WHERE employee_id = $1),
			EXISTS(SELECT 1 FROM employees WHERE LOWER(email) = LOWER($2))
	`

	var idTaken, emailTaken bool
	if err := q.QueryRow(ctx, query, employeeID, email).Scan(&idTaken, &emailTaken); err != nil {
		return false, false, fmt.Errorf("check employee uniqueness: %w", err)
	}
	return idTaken, emailTaken, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return collectEmployees(rows)
}

// Search implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Search(ctx context.Context, search string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE full_name ILIKE $1 OR employee_id ILIKE $1 OR email ILIKE $1
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, "%"+escapeLike(search)+"%")
	if err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}
	return collectEmployees(rows)
}

// Delete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(&emp.ID, &emp.EmployeeID, &emp.FullName, &emp.Email, &emp.Department, &emp.CreatedAt)
	return emp, err
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}
