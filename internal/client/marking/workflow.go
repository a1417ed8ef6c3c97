// Package marking partitions the directory into pending and marked employees
// for a selected day and submits single and bulk attendance marks.
package marking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/client/store"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/dates"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
)

var (
	ErrNothingPending    = errors.New("no pending employees for the selected date")
	ErrMarkInFlight      = errors.New("a mark for this employee is already in progress")
	ErrStaleConfirmation = errors.New("selected date changed since the bulk action was prepared")
)

const defaultConcurrency = 4

// State is an employee's attendance state for the selected day.
type State int

const (
	Pending State = iota
	MarkedPresent
	MarkedAbsent
)

func (s State) String() string {
	switch s {
	case MarkedPresent:
		return "Marked Present"
	case MarkedAbsent:
		return "Marked Absent"
	default:
		return "Pending"
	}
}

// MarkedEmployee pairs an employee with the status recorded for the selected day.
type MarkedEmployee struct {
	Employee employee.EmployeeResponse
	Status   attendance.Status
}

// Partition splits the directory for one day. Every employee appears in
// exactly one of the two lists.
type Partition struct {
	Date    string
	Pending []employee.EmployeeResponse
	Marked  []MarkedEmployee
}

// Workflow drives attendance marking for one selected day. Employee states are
// derived from the unfiltered attendance snapshot on every read.
type Workflow struct {
	employees   *store.Employees
	attendance  *store.Attendance
	now         func() time.Time
	concurrency int

	mu       sync.Mutex
	date     string
	dateErr  error
	records  []attendance.AttendanceResponse
	inFlight map[string]bool
}

type Option func(*Workflow)

// WithClock sets the source of the current day.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		w.now = now
	}
}

// WithConcurrency caps the number of marks a bulk action runs at once.
func WithConcurrency(n int) Option {
	return func(w *Workflow) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// New starts the workflow on today's date.
func New(employees *store.Employees, attendanceStore *store.Attendance, opts ...Option) *Workflow {
	w := &Workflow{
		employees:   employees,
		attendance:  attendanceStore,
		now:         time.Now,
		concurrency: defaultConcurrency,
		inFlight:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.date = dates.Today(w.now())
	return w
}

// Date returns the selected day.
func (w *Workflow) Date() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.date
}

// DateError returns the validation error of the selected day, if any.
func (w *Workflow) DateError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dateErr
}

// Refresh reloads the directory and the unfiltered attendance snapshot.
func (w *Workflow) Refresh(ctx context.Context) {
	w.employees.FetchAll(ctx)
	w.refreshAttendance(ctx)
}

// SelectDate switches the selected day and reloads the attendance snapshot so
// the partition reflects it. An invalid day is kept as the selection but
// blocks marking until a valid one is chosen.
func (w *Workflow) SelectDate(ctx context.Context, day string) error {
	day = dates.Normalize(day)
	err := validateDay(day, w.now())

	w.mu.Lock()
	w.date = day
	w.dateErr = err
	w.mu.Unlock()

	if err != nil {
		return err
	}
	w.refreshAttendance(ctx)
	return nil
}

func validateDay(day string, now time.Time) error {
	var errs validator.ValidationErrors
	switch {
	case day == "":
		errs.Add("date", "Date is required")
	case !isDay(day):
		errs.Add("date", "Date must be in YYYY-MM-DD format")
	case dates.IsFuture(day, now):
		errs.Add("date", "Date cannot be in the future")
	}
	return errs.Err()
}

func isDay(s string) bool {
	_, ok := validator.IsValidDate(s)
	return ok
}

func (w *Workflow) refreshAttendance(ctx context.Context) {
	records := w.attendance.FetchAll(ctx)

	w.mu.Lock()
	w.records = records
	w.mu.Unlock()
}

// StateOf returns the employee's state for the selected day.
func (w *Workflow) StateOf(employeeID int64) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked(employeeID, w.date)
}

func (w *Workflow) stateLocked(employeeID int64, day string) State {
	for _, rec := range w.records {
		if rec.EmployeeID != employeeID || rec.Day() != day {
			continue
		}
		if rec.Status == attendance.StatusAbsent {
			return MarkedAbsent
		}
		return MarkedPresent
	}
	return Pending
}

// Partition splits the directory into pending and marked employees for the selected day.
func (w *Workflow) Partition() Partition {
	directory := w.employees.Employees()

	w.mu.Lock()
	defer w.mu.Unlock()

	p := Partition{
		Date:    w.date,
		Pending: []employee.EmployeeResponse{},
		Marked:  []MarkedEmployee{},
	}
	for _, e := range directory {
		switch w.stateLocked(e.ID, w.date) {
		case MarkedPresent:
			p.Marked = append(p.Marked, MarkedEmployee{Employee: e, Status: attendance.StatusPresent})
		case MarkedAbsent:
			p.Marked = append(p.Marked, MarkedEmployee{Employee: e, Status: attendance.StatusAbsent})
		default:
			p.Pending = append(p.Pending, e)
		}
	}
	return p
}

// Mark records status for one pending employee on the selected day. Employees
// already marked are refused without contacting the backend, as is a second
// mark while the first is still in flight.
func (w *Workflow) Mark(ctx context.Context, employeeID int64, status attendance.Status) (attendance.AttendanceResponse, error) {
	w.mu.Lock()
	day, dateErr := w.date, w.dateErr
	w.mu.Unlock()

	if dateErr != nil {
		return attendance.AttendanceResponse{}, dateErr
	}
	return w.markOn(ctx, day, employeeID, status)
}

func (w *Workflow) markOn(ctx context.Context, day string, employeeID int64, status attendance.Status) (attendance.AttendanceResponse, error) {
	key := fmt.Sprintf("%d/%s", employeeID, day)

	w.mu.Lock()
	if state := w.stateLocked(employeeID, day); state != Pending {
		w.mu.Unlock()
		return attendance.AttendanceResponse{}, fmt.Errorf("%w: employee %d is %s on %s", attendance.ErrAlreadyMarked, employeeID, state, day)
	}
	if w.inFlight[key] {
		w.mu.Unlock()
		return attendance.AttendanceResponse{}, ErrMarkInFlight
	}
	w.inFlight[key] = true
	w.mu.Unlock()

	created, err := w.attendance.Mark(ctx, attendance.MarkAttendanceRequest{
		EmployeeID: employeeID,
		Date:       day,
		Status:     status,
	})

	w.mu.Lock()
	delete(w.inFlight, key)
	if err == nil {
		w.records = append(w.records, created)
	}
	w.mu.Unlock()

	return created, err
}

// BulkConfirmation describes a bulk action awaiting confirmation.
type BulkConfirmation struct {
	Date      string
	Status    attendance.Status
	Employees []employee.EmployeeResponse
}

// Count is the number of marks the action would issue.
func (c BulkConfirmation) Count() int {
	return len(c.Employees)
}

// Prompt is the confirmation question shown before dispatch.
func (c BulkConfirmation) Prompt() string {
	noun := "employees"
	if c.Count() == 1 {
		noun = "employee"
	}
	return fmt.Sprintf("Mark %d %s as %s on %s?", c.Count(), noun, c.Status, c.Date)
}

// PrepareBulk captures the pending employees for a bulk action. Nothing is
// submitted until the confirmation is passed to ConfirmBulk.
func (w *Workflow) PrepareBulk(status attendance.Status) (BulkConfirmation, error) {
	if !status.IsValid() {
		return BulkConfirmation{}, validator.ValidationErrors{{Field: "status", Message: "status must be one of: Present, Absent"}}
	}
	if err := w.DateError(); err != nil {
		return BulkConfirmation{}, err
	}

	p := w.Partition()
	if len(p.Pending) == 0 {
		return BulkConfirmation{}, ErrNothingPending
	}
	return BulkConfirmation{Date: p.Date, Status: status, Employees: p.Pending}, nil
}
