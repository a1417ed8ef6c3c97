package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/client/history"
	"github.com/cmlabs-hris/hrms-lite/internal/client/marking"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/dates"
)

// stringList collects a repeated flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func (a *app) attendanceCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	fs := flag.NewFlagSet("attendance "+args[0], flag.ContinueOnError)
	date := fs.String("date", "", "calendar day, YYYY-MM-DD (default today)")

	switch args[0] {
	case "pending":
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}
		w, err := a.workflow(ctx, *date)
		if err != nil {
			return err
		}
		return a.printPartition(w.Partition())

	case "mark":
		key := fs.String("employee", "", "employee ID, numeric id or name")
		status := fs.String("status", "", "Present or Absent")
		if err := fs.Parse(args[1:]); err != nil || *key == "" {
			return errUsage
		}
		w, err := a.workflow(ctx, *date)
		if err != nil {
			return err
		}
		emp, err := a.resolveEmployee(*key)
		if err != nil {
			return err
		}
		rec, err := w.Mark(ctx, emp.ID, attendance.Status(*status))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Marked %s %s on %s\n", emp.FullName, rec.Status, rec.Day())
		return nil

	case "bulk":
		status := fs.String("status", "", "Present or Absent")
		yes := fs.Bool("yes", false, "skip confirmation")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}
		w, err := a.workflow(ctx, *date)
		if err != nil {
			return err
		}
		return a.bulk(ctx, w, attendance.Status(*status), *yes)

	case "history":
		var depts stringList
		key := fs.String("employee", "", "employee ID, numeric id or name")
		fs.Var(&depts, "dept", "department (repeatable)")
		from := fs.String("from", "", "first day, YYYY-MM-DD")
		to := fs.String("to", "", "last day, YYYY-MM-DD")
		preset := fs.String("preset", "", "Today, Yesterday, This Week or This Month")
		export := fs.String("export", "", "write the history to an .xlsx file")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}
		return a.history(ctx, *key, depts, *from, *to, *preset, *export)

	default:
		return errUsage
	}
}

func (a *app) workflow(ctx context.Context, date string) (*marking.Workflow, error) {
	w := marking.New(a.employees, a.attendance, marking.WithConcurrency(a.cfg.BulkConcurrency))
	w.Refresh(ctx)
	if err := a.employees.Err(); err != nil {
		return nil, err
	}
	if err := a.attendance.Err(); err != nil {
		return nil, err
	}
	if date != "" {
		if err := w.SelectDate(ctx, date); err != nil {
			return nil, err
		}
		if err := a.attendance.Err(); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (a *app) printPartition(p marking.Partition) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Attendance for %s: %d pending, %d marked\n", p.Date, len(p.Pending), len(p.Marked))
	fmt.Fprintln(tw, "EMPLOYEE ID\tNAME\tDEPARTMENT\tSTATE")
	for _, e := range p.Pending {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.EmployeeID, e.FullName, e.Department, marking.Pending)
	}
	for _, m := range p.Marked {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Employee.EmployeeID, m.Employee.FullName, m.Employee.Department, m.Status)
	}
	return tw.Flush()
}

func (a *app) bulk(ctx context.Context, w *marking.Workflow, status attendance.Status, yes bool) error {
	conf, err := w.PrepareBulk(status)
	if err != nil {
		return err
	}
	if !yes && !confirm(a.in, a.out, conf.Prompt()) {
		fmt.Fprintln(a.out, "Aborted")
		return nil
	}

	report, err := w.ConfirmBulk(ctx, conf)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, report.Summary())
	for _, o := range report.Failed() {
		fmt.Fprintf(a.out, "  %s %s: %s\n", o.Employee.EmployeeID, o.Employee.FullName, describe(o.Err))
	}
	return report.Err()
}

func (a *app) history(ctx context.Context, key string, depts []string, from, to, preset, export string) error {
	a.employees.FetchAll(ctx)
	if err := a.employees.Err(); err != nil {
		return err
	}

	var employeeID *int64
	if key != "" {
		emp, err := a.resolveEmployee(key)
		if err != nil {
			return err
		}
		employeeID = &emp.ID
	}

	// Every axis goes in one batch so only the final criteria hit the backend.
	filter := history.NewFilter(a.attendance, time.Now)
	err := filter.Batch(ctx, func(b *history.Batch) error {
		b.SelectEmployee(employeeID)
		if len(depts) > 0 {
			b.SetDepartments(depts)
		}
		if preset != "" {
			return b.ApplyPreset(preset)
		}
		if from != "" || to != "" {
			b.SetDateRange(from, to)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := a.attendance.Err(); err != nil {
		return err
	}
	records := a.attendance.Records()

	if export != "" {
		file, err := os.Create(export)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer file.Close()
		if err := history.ExportXLSX(file, records, a.employees.Employees()); err != nil {
			return fmt.Errorf("failed to export history: %w", err)
		}
		fmt.Fprintf(a.out, "Exported %d records to %s\n", len(records), export)
		return nil
	}

	names := make(map[int64]string)
	for _, e := range a.employees.Employees() {
		names[e.ID] = e.FullName + " (" + e.EmployeeID + ")"
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tEMPLOYEE\tSTATUS")
	for _, r := range records {
		name, ok := names[r.EmployeeID]
		if !ok {
			name = "Unknown"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", dates.Normalize(r.Date), name, r.Status)
	}
	return tw.Flush()
}
