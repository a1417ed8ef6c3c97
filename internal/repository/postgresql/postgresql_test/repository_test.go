package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func createTestEmployee(t *testing.T, repo employee.EmployeeRepository, id, name, email string, dept employee.Department) employee.Employee {
	t.Helper()
	created, err := repo.Create(context.Background(), employee.Employee{
		EmployeeID: id, FullName: name, Email: email, Department: dept,
	})
	require.NoError(t, err)
	return created
}

func TestEmployeeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(setup.DB)
	ctx := context.Background()

	ada := createTestEmployee(t, repo, "ENG001", "Ada Lovelace", "ada@example.com", employee.DepartmentEngineering)
	createTestEmployee(t, repo, "HR001", "Grace Hopper", "grace@example.com", employee.DepartmentHR)

	t.Run("duplicate keys", func(t *testing.T) {
		_, err := repo.Create(ctx, employee.Employee{EmployeeID: "ENG001", FullName: "X Y", Email: "x@example.com", Department: employee.DepartmentHR})
		assert.ErrorIs(t, err, employee.ErrEmployeeIDExists)

		_, err = repo.Create(ctx, employee.Employee{EmployeeID: "ENG009", FullName: "X Y", Email: "ada@example.com", Department: employee.DepartmentHR})
		assert.ErrorIs(t, err, employee.ErrEmailExists)

		idTaken, emailTaken, err := repo.ExistsByEmployeeIDOrEmail(ctx, "ENG001", "ADA@example.com")
		require.NoError(t, err)
		assert.True(t, idTaken)
		assert.True(t, emailTaken)
	})

	t.Run("get and list", func(t *testing.T) {
		got, err := repo.GetByID(ctx, ada.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", got.FullName)

		_, err = repo.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("search is case-insensitive and literal", func(t *testing.T) {
		found, err := repo.Search(ctx, "hopper")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "HR001", found[0].EmployeeID)

		found, err = repo.Search(ctx, "%")
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, 9999), employee.ErrEmployeeNotFound)
	})
}

func TestAttendanceRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	employees := postgresql.NewEmployeeRepository(setup.DB)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()

	ada := createTestEmployee(t, employees, "ENG001", "Ada Lovelace", "ada@example.com", employee.DepartmentEngineering)
	grace := createTestEmployee(t, employees, "HR001", "Grace Hopper", "grace@example.com", employee.DepartmentHR)

	for _, rec := range []attendance.Attendance{
		{EmployeeID: ada.ID, Date: day("2024-01-10"), Status: attendance.StatusPresent},
		{EmployeeID: ada.ID, Date: day("2024-02-01"), Status: attendance.StatusAbsent},
		{EmployeeID: grace.ID, Date: day("2024-01-15"), Status: attendance.StatusPresent},
	} {
		_, err := repo.Create(ctx, rec)
		require.NoError(t, err)
	}

	t.Run("one record per employee and day", func(t *testing.T) {
		_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: ada.ID, Date: day("2024-01-10"), Status: attendance.StatusAbsent})
		assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)

		exists, err := repo.ExistsForEmployeeOnDate(ctx, ada.ID, day("2024-01-10"))
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := repo.Create(ctx, attendance.Attendance{EmployeeID: 9999, Date: day("2024-01-10"), Status: attendance.StatusPresent})
		assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)
	})

	t.Run("filters combine", func(t *testing.T) {
		all, err := repo.List(ctx, attendance.AttendanceFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "2024-02-01", all[0].ToResponse().Date)

		id := ada.ID
		got, err := repo.List(ctx, attendance.AttendanceFilter{
			EmployeeID:  &id,
			FromDate:    "2024-01-01",
			ToDate:      "2024-01-31",
			Departments: []string{"Engineering", "Sales"},
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "2024-01-10", got[0].ToResponse().Date)

		got, err = repo.List(ctx, attendance.AttendanceFilter{Departments: []string{"HR"}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, grace.ID, got[0].EmployeeID)
	})

	t.Run("deleting an employee removes their records", func(t *testing.T) {
		require.NoError(t, employees.Delete(ctx, grace.ID))
		got, err := repo.List(ctx, attendance.AttendanceFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestDashboardRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	employees := postgresql.NewEmployeeRepository(setup.DB)
	records := postgresql.NewAttendanceRepository(setup.DB)
	repo := postgresql.NewDashboardRepository(setup.DB)
	ctx := context.Background()

	ada := createTestEmployee(t, employees, "ENG001", "Ada Lovelace", "ada@example.com", employee.DepartmentEngineering)
	grace := createTestEmployee(t, employees, "HR001", "Grace Hopper", "grace@example.com", employee.DepartmentHR)
	createTestEmployee(t, employees, "SAL001", "Alan Turing", "alan@example.com", employee.DepartmentSales)

	_, err := records.Create(ctx, attendance.Attendance{EmployeeID: ada.ID, Date: day("2024-01-10"), Status: attendance.StatusPresent})
	require.NoError(t, err)
	_, err = records.Create(ctx, attendance.Attendance{EmployeeID: grace.ID, Date: day("2024-01-10"), Status: attendance.StatusAbsent})
	require.NoError(t, err)
	_, err = records.Create(ctx, attendance.Attendance{EmployeeID: grace.ID, Date: day("2024-01-09"), Status: attendance.StatusPresent})
	require.NoError(t, err)

	total, err := repo.CountEmployees(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	counts, err := repo.CountByStatusOnDate(ctx, day("2024-01-10"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Present)
	assert.Equal(t, int64(1), counts.Absent)

	activity, err := repo.RecentActivity(ctx, 2)
	require.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, "Grace Hopper", activity[0].EmployeeName)
	assert.Equal(t, "HR001", activity[0].EmployeeEmployeeID)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewEmployeeRepository(setup.DB)
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := postgresql.WithTransaction(ctx, setup.DB, func(ctx context.Context) error {
		_, err := repo.Create(ctx, employee.Employee{EmployeeID: "TMP001", FullName: "Temp Person", Email: "tmp@example.com", Department: employee.DepartmentOperations})
		require.NoError(t, err)
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
