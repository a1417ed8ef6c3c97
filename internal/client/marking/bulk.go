package marking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one mark in a bulk action. Skipped marks were not
// submitted because the employee was no longer pending or another mark for
// them was already on its way.
type Outcome struct {
	Employee employee.EmployeeResponse
	Record   attendance.AttendanceResponse
	Err      error
	Skipped  bool
}

// BulkReport aggregates every per-employee outcome; failures never roll back
// marks that succeeded.
type BulkReport struct {
	Date     string
	Status   attendance.Status
	Outcomes []Outcome
}

func (r BulkReport) Succeeded() []Outcome {
	return r.filter(func(o Outcome) bool { return !o.Skipped && o.Err == nil })
}

func (r BulkReport) Failed() []Outcome {
	return r.filter(func(o Outcome) bool { return o.Err != nil })
}

func (r BulkReport) Skipped() []Outcome {
	return r.filter(func(o Outcome) bool { return o.Skipped })
}

func (r BulkReport) filter(keep func(Outcome) bool) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// Err joins every failure, or returns nil when all submitted marks succeeded.
func (r BulkReport) Err() error {
	var errs []error
	for _, o := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", o.Employee.EmployeeID, o.Err))
	}
	return errors.Join(errs...)
}

// Summary is a one-line description of the report.
func (r BulkReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s on %s: %d marked", r.Status, r.Date, len(r.Succeeded()))
	if n := len(r.Failed()); n > 0 {
		fmt.Fprintf(&b, ", %d failed", n)
	}
	if n := len(r.Skipped()); n > 0 {
		fmt.Fprintf(&b, ", %d skipped", n)
	}
	return b.String()
}

// ConfirmBulk dispatches one mark per employee in the confirmation, at most
// the configured number at a time. Employees marked since PrepareBulk are
// skipped, so confirming the same action twice submits nothing the second time.
// So are employees whose single mark is still in flight.
func (w *Workflow) ConfirmBulk(ctx context.Context, conf BulkConfirmation) (BulkReport, error) {
	w.mu.Lock()
	day, dateErr := w.date, w.dateErr
	w.mu.Unlock()

	if dateErr != nil {
		return BulkReport{}, dateErr
	}
	if conf.Date != day {
		return BulkReport{}, ErrStaleConfirmation
	}
	if !conf.Status.IsValid() {
		return BulkReport{}, fmt.Errorf("invalid status %q", conf.Status)
	}

	report := BulkReport{
		Date:     conf.Date,
		Status:   conf.Status,
		Outcomes: make([]Outcome, len(conf.Employees)),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for i, emp := range conf.Employees {
		report.Outcomes[i].Employee = emp

		if w.StateOf(emp.ID) != Pending {
			report.Outcomes[i].Skipped = true
			continue
		}

		i, emp := i, emp
		g.Go(func() error {
			rec, err := w.markOn(gCtx, conf.Date, emp.ID, conf.Status)
			if errors.Is(err, attendance.ErrAlreadyMarked) || errors.Is(err, ErrMarkInFlight) {
				report.Outcomes[i].Skipped = true
				return nil
			}
			report.Outcomes[i].Record = rec
			report.Outcomes[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	if failed := report.Failed(); len(failed) > 0 {
		slog.Warn("Bulk attendance partially failed", "date", conf.Date, "status", conf.Status,
			"failed", len(failed), "succeeded", len(report.Succeeded()))
	}
	return report, nil
}
