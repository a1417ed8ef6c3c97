package marking

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/client/clienttest"
	"github.com/cmlabs-hris/hrms-lite/internal/client/store"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const attendancePath = "/api/v1/attendance"

func fixedNow() time.Time {
	return time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)
}

func newWorkflow(t *testing.T, opts ...Option) (*clienttest.Backend, *Workflow) {
	t.Helper()
	backend, api := clienttest.NewBackend(t)
	backend.AddEmployee("ENG001", "Ada Lovelace", "ada@example.com", "Engineering")
	backend.AddEmployee("HR001", "Grace Hopper", "grace@example.com", "HR")
	backend.AddEmployee("SAL001", "Alan Turing", "alan@example.com", "Sales")

	opts = append([]Option{WithClock(fixedNow)}, opts...)
	w := New(store.NewEmployees(api), store.NewAttendance(api), opts...)
	return backend, w
}

func TestNew_StartsOnToday(t *testing.T) {
	_, w := newWorkflow(t)
	assert.Equal(t, "2024-01-10", w.Date())
	assert.NoError(t, w.DateError())
}

func TestPartition_IsExhaustiveAndDisjoint(t *testing.T) {
	backend, w := newWorkflow(t)
	backend.AddAttendance(1, "2024-01-10", attendance.StatusPresent)
	backend.AddAttendance(2, "2024-01-10T00:00:00", attendance.StatusAbsent)
	backend.AddAttendance(3, "2024-01-09", attendance.StatusPresent)

	w.Refresh(context.Background())
	p := w.Partition()

	assert.Equal(t, "2024-01-10", p.Date)
	require.Len(t, p.Pending, 1)
	assert.Equal(t, "SAL001", p.Pending[0].EmployeeID)
	require.Len(t, p.Marked, 2)
	assert.Equal(t, attendance.StatusPresent, p.Marked[0].Status)
	assert.Equal(t, attendance.StatusAbsent, p.Marked[1].Status)

	assert.Equal(t, MarkedPresent, w.StateOf(1))
	assert.Equal(t, MarkedAbsent, w.StateOf(2))
	assert.Equal(t, Pending, w.StateOf(3))

	require.NoError(t, w.SelectDate(context.Background(), "2024-01-09"))
	p = w.Partition()
	assert.Len(t, p.Pending, 2)
	assert.Len(t, p.Marked, 1)
	assert.Equal(t, MarkedPresent, w.StateOf(3))
}

func TestSelectDate_RejectsInvalidDays(t *testing.T) {
	tests := []struct {
		name    string
		day     string
		message string
	}{
		{name: "empty", day: "", message: "Date is required"},
		{name: "malformed", day: "10/01/2024", message: "Date must be in YYYY-MM-DD format"},
		{name: "future", day: "2024-01-11", message: "Date cannot be in the future"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, w := newWorkflow(t)

			err := w.SelectDate(context.Background(), tt.day)

			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.message, verrs.ToMap()["date"])
			assert.Equal(t, err, w.DateError())
			assert.Empty(t, backend.RequestsTo(http.MethodGet, attendancePath))

			_, err = w.Mark(context.Background(), 1, attendance.StatusPresent)
			assert.Error(t, err)
			_, err = w.PrepareBulk(attendance.StatusPresent)
			assert.Error(t, err)
			assert.Empty(t, backend.RequestsTo(http.MethodPost, attendancePath))
		})
	}
}

func TestSelectDate_ValidDayClearsError(t *testing.T) {
	_, w := newWorkflow(t)
	require.Error(t, w.SelectDate(context.Background(), "2024-02-01"))

	require.NoError(t, w.SelectDate(context.Background(), " 2024-01-05T08:00:00 "))
	assert.Equal(t, "2024-01-05", w.Date())
	assert.NoError(t, w.DateError())
}

func TestMark_MovesEmployeeToMarkedWithoutRefetch(t *testing.T) {
	backend, w := newWorkflow(t)
	w.Refresh(context.Background())
	fetches := len(backend.RequestsTo(http.MethodGet, attendancePath))

	created, err := w.Mark(context.Background(), 1, attendance.StatusAbsent)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", created.Day())
	assert.Equal(t, MarkedAbsent, w.StateOf(1))
	assert.Len(t, w.Partition().Pending, 2)
	assert.Len(t, backend.RequestsTo(http.MethodGet, attendancePath), fetches)
}

func TestMark_AlreadyMarkedIsRefusedLocally(t *testing.T) {
	backend, w := newWorkflow(t)
	backend.AddAttendance(1, "2024-01-10", attendance.StatusPresent)
	w.Refresh(context.Background())

	_, err := w.Mark(context.Background(), 1, attendance.StatusAbsent)
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)
	assert.Empty(t, backend.RequestsTo(http.MethodPost, attendancePath))
}

func TestMark_BackendRejectionIsSurfaced(t *testing.T) {
	backend, w := newWorkflow(t)
	w.Refresh(context.Background())
	backend.FailMarksFor(2, http.StatusInternalServerError, `{"detail":"An unexpected error occurred"}`)

	_, err := w.Mark(context.Background(), 2, attendance.StatusPresent)
	require.Error(t, err)
	assert.Equal(t, "An unexpected error occurred", err.Error())
	assert.Equal(t, Pending, w.StateOf(2))
}

func TestMark_RefusesDuplicateWhileInFlight(t *testing.T) {
	backend, w := newWorkflow(t)
	w.Refresh(context.Background())
	backend.SetMarkDelay(200 * time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := w.Mark(context.Background(), 1, attendance.StatusPresent)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return len(backend.RequestsTo(http.MethodPost, attendancePath)) == 1
	}, time.Second, 5*time.Millisecond)

	_, err := w.Mark(context.Background(), 1, attendance.StatusPresent)
	assert.ErrorIs(t, err, ErrMarkInFlight)

	require.NoError(t, <-done)
	assert.Len(t, backend.RequestsTo(http.MethodPost, attendancePath), 1)
	assert.Equal(t, MarkedPresent, w.StateOf(1))
}

func TestPrepareBulk(t *testing.T) {
	backend, w := newWorkflow(t)
	backend.AddAttendance(3, "2024-01-10", attendance.StatusPresent)
	w.Refresh(context.Background())

	conf, err := w.PrepareBulk(attendance.StatusPresent)
	require.NoError(t, err)
	assert.Equal(t, 2, conf.Count())
	assert.Equal(t, "Mark 2 employees as Present on 2024-01-10?", conf.Prompt())
	assert.Empty(t, backend.RequestsTo(http.MethodPost, attendancePath))

	_, err = w.PrepareBulk(attendance.Status("Late"))
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestPrepareBulk_NothingPending(t *testing.T) {
	backend, w := newWorkflow(t)
	for id := int64(1); id <= 3; id++ {
		backend.AddAttendance(id, "2024-01-10", attendance.StatusPresent)
	}
	w.Refresh(context.Background())

	_, err := w.PrepareBulk(attendance.StatusAbsent)
	assert.ErrorIs(t, err, ErrNothingPending)
}

func TestConfirmBulk_MarksEveryPendingEmployeeOnce(t *testing.T) {
	backend, w := newWorkflow(t, WithConcurrency(2))
	w.Refresh(context.Background())

	conf, err := w.PrepareBulk(attendance.StatusPresent)
	require.NoError(t, err)

	report, err := w.ConfirmBulk(context.Background(), conf)
	require.NoError(t, err)
	assert.Len(t, report.Succeeded(), 3)
	assert.Empty(t, report.Failed())
	assert.NoError(t, report.Err())
	assert.Equal(t, "Present on 2024-01-10: 3 marked", report.Summary())
	assert.Len(t, backend.RequestsTo(http.MethodPost, attendancePath), 3)
	assert.Empty(t, w.Partition().Pending)

	again, err := w.ConfirmBulk(context.Background(), conf)
	require.NoError(t, err)
	assert.Len(t, again.Skipped(), 3)
	assert.Empty(t, again.Succeeded())
	assert.Equal(t, "Present on 2024-01-10: 0 marked, 3 skipped", again.Summary())
	assert.Len(t, backend.RequestsTo(http.MethodPost, attendancePath), 3)
}

func TestConfirmBulk_SkipsEmployeeWithMarkInFlight(t *testing.T) {
	backend, w := newWorkflow(t)
	w.Refresh(context.Background())

	conf, err := w.PrepareBulk(attendance.StatusPresent)
	require.NoError(t, err)
	require.Equal(t, 3, conf.Count())

	backend.SetMarkDelay(200 * time.Millisecond)
	done := make(chan error, 1)
	go func() {
		_, err := w.Mark(context.Background(), 1, attendance.StatusPresent)
		done <- err
	}()
	require.Eventually(t, func() bool {
		return len(backend.RequestsTo(http.MethodPost, attendancePath)) == 1
	}, time.Second, 5*time.Millisecond)

	report, err := w.ConfirmBulk(context.Background(), conf)
	require.NoError(t, err)
	require.NoError(t, <-done)

	require.Len(t, report.Skipped(), 1)
	assert.Equal(t, "ENG001", report.Skipped()[0].Employee.EmployeeID)
	assert.Empty(t, report.Failed())
	assert.Len(t, report.Succeeded(), 2)
	assert.Len(t, backend.RequestsTo(http.MethodPost, attendancePath), 3)
	assert.Empty(t, w.Partition().Pending)
}

func TestConfirmBulk_ReportsPartialFailure(t *testing.T) {
	backend, w := newWorkflow(t)
	w.Refresh(context.Background())
	backend.FailMarksFor(2, http.StatusInternalServerError, `{"detail":"An unexpected error occurred"}`)

	conf, err := w.PrepareBulk(attendance.StatusAbsent)
	require.NoError(t, err)

	report, err := w.ConfirmBulk(context.Background(), conf)
	require.NoError(t, err)

	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "HR001", report.Failed()[0].Employee.EmployeeID)
	assert.Len(t, report.Succeeded(), 2)
	assert.EqualError(t, report.Err(), "HR001: An unexpected error occurred")
	assert.Equal(t, "Absent on 2024-01-10: 2 marked, 1 failed", report.Summary())

	assert.Equal(t, MarkedAbsent, w.StateOf(1))
	assert.Equal(t, Pending, w.StateOf(2))
	assert.Equal(t, MarkedAbsent, w.StateOf(3))
	assert.Len(t, backend.Attendance(), 2)
}

func TestConfirmBulk_StaleConfirmation(t *testing.T) {
	backend, w := newWorkflow(t)
	w.Refresh(context.Background())

	conf, err := w.PrepareBulk(attendance.StatusPresent)
	require.NoError(t, err)
	require.NoError(t, w.SelectDate(context.Background(), "2024-01-09"))

	_, err = w.ConfirmBulk(context.Background(), conf)
	assert.ErrorIs(t, err, ErrStaleConfirmation)
	assert.Empty(t, backend.RequestsTo(http.MethodPost, attendancePath))
}
