package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance (employee_id, date, status)
		VALUES ($1, $2, $3)
		RETURNING id, employee_id, date, status, created_at
	`

	created, err := scanAttendance(q.QueryRow(ctx, query, a.EmployeeID, a.Date, a.Status))
	if err != nil {
		if _, ok := constraintViolation(err, uniqueViolation); ok {
			return attendance.Attendance{}, attendance.ErrAlreadyMarked
		}
		if _, ok := constraintViolation(err, foreignKeyViolation); ok {
			return attendance.Attendance{}, attendance.ErrEmployeeNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("insert attendance: %w", err)
	}
	return created, nil
}

// ExistsForEmployeeOnDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ExistsForEmployeeOnDate(ctx context.Context, employeeID int64, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM attendance WHERE employee_id = $1 AND date = $2)`,
		employeeID, date,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check attendance for employee %d: %w", employeeID, err)
	}
	return exists, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query, args := buildAttendanceListQuery(filter)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// buildAttendanceListQuery ANDs every set filter field; departments match any of the set.
func buildAttendanceListQuery(filter attendance.AttendanceFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.EmployeeID != nil {
		conditions = append(conditions, "a.employee_id = "+arg(*filter.EmployeeID))
	}
	if filter.FromDate != "" {
		conditions = append(conditions, "a.date >= "+arg(filter.FromDate)+"::date")
	}
	if filter.ToDate != "" {
		conditions = append(conditions, "a.date <= "+arg(filter.ToDate)+"::date")
	}
	if len(filter.Departments) > 0 {
		conditions = append(conditions, "e.department = ANY("+arg(filter.Departments)+")")
	}

	query := `
		SELECT a.id, a.employee_id, a.date, a.status, a.created_at
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id`
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY a.date DESC, a.id DESC"

	return query, args
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Status, &a.CreatedAt)
	return a, err
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
