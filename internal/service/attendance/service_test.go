package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

type memAttendanceRepo struct {
	records []attendance.Attendance
	filters []attendance.AttendanceFilter
}

func (m *memAttendanceRepo) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	a.ID = int64(len(m.records) + 1)
	a.CreatedAt = fixedNow
	m.records = append(m.records, a)
	return a, nil
}

func (m *memAttendanceRepo) ExistsForEmployeeOnDate(_ context.Context, employeeID int64, date time.Time) (bool, error) {
	for _, r := range m.records {
		if r.EmployeeID == employeeID && r.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAttendanceRepo) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	m.filters = append(m.filters, filter)
	return m.records, nil
}

type memEmployeeRepo struct {
	employee.EmployeeRepository
	ids map[int64]bool
}

func (m *memEmployeeRepo) GetByID(_ context.Context, id int64) (employee.Employee, error) {
	if !m.ids[id] {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: id}, nil
}

func newTestService(repo *memAttendanceRepo, employeeIDs ...int64) *AttendanceServiceImpl {
	ids := make(map[int64]bool)
	for _, id := range employeeIDs {
		ids[id] = true
	}
	return &AttendanceServiceImpl{
		withTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
		attendanceRepo: repo,
		employeeRepo:   &memEmployeeRepo{ids: ids},
		now:            func() time.Time { return fixedNow },
	}
}

func TestAttendanceService_MarkAttendance(t *testing.T) {
	repo := &memAttendanceRepo{}
	svc := newTestService(repo, 1)

	resp, err := svc.MarkAttendance(context.Background(), attendance.MarkAttendanceRequest{
		EmployeeID: 1,
		Date:       "2024-01-31",
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", resp.Date)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Len(t, repo.records, 1)
}

func TestAttendanceService_MarkAttendance_Duplicate(t *testing.T) {
	repo := &memAttendanceRepo{}
	svc := newTestService(repo, 1)
	req := attendance.MarkAttendanceRequest{EmployeeID: 1, Date: "2024-01-30", Status: attendance.StatusAbsent}

	_, err := svc.MarkAttendance(context.Background(), req)
	require.NoError(t, err)

	req.Status = attendance.StatusPresent
	_, err = svc.MarkAttendance(context.Background(), req)
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)
	assert.Len(t, repo.records, 1)
}

func TestAttendanceService_MarkAttendance_UnknownEmployee(t *testing.T) {
	svc := newTestService(&memAttendanceRepo{})

	_, err := svc.MarkAttendance(context.Background(), attendance.MarkAttendanceRequest{
		EmployeeID: 42,
		Date:       "2024-01-30",
		Status:     attendance.StatusPresent,
	})
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)
}

func TestAttendanceService_MarkAttendance_FutureDate(t *testing.T) {
	repo := &memAttendanceRepo{}
	svc := newTestService(repo, 1)

	_, err := svc.MarkAttendance(context.Background(), attendance.MarkAttendanceRequest{
		EmployeeID: 1,
		Date:       "2024-02-01",
		Status:     attendance.StatusPresent,
	})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"date"}, verrs.Fields())
	assert.Empty(t, repo.records)
}

func TestAttendanceService_ListAttendance(t *testing.T) {
	repo := &memAttendanceRepo{}
	svc := newTestService(repo, 7)
	_, err := svc.MarkAttendance(context.Background(), attendance.MarkAttendanceRequest{
		EmployeeID: 7, Date: "2024-01-15", Status: attendance.StatusPresent,
	})
	require.NoError(t, err)

	id := int64(7)
	filter := attendance.AttendanceFilter{
		EmployeeID:  &id,
		FromDate:    "2024-01-01",
		ToDate:      "2024-01-31",
		Departments: []string{"Engineering"},
	}
	records, err := svc.ListAttendance(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	require.Len(t, repo.filters, 1)
	assert.Equal(t, filter, repo.filters[0])

	_, err = svc.ListAttendance(context.Background(), attendance.AttendanceFilter{FromDate: "2024-02-01", ToDate: "2024-01-01"})
	assert.Error(t, err)
	assert.Len(t, repo.filters, 1)
}
