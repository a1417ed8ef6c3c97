package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/client/history"
	"github.com/cmlabs-hris/hrms-lite/internal/client/store"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
)

func (a *app) employeesCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("employees list", flag.ContinueOnError)
		search := fs.String("search", "", "filter by name, employee ID or email")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}
		return a.listEmployees(ctx, *search)

	case "find":
		return a.findEmployees(ctx)

	case "add":
		fs := flag.NewFlagSet("employees add", flag.ContinueOnError)
		req := employee.CreateEmployeeRequest{}
		fs.StringVar(&req.EmployeeID, "id", "", "employee ID")
		fs.StringVar(&req.FullName, "name", "", "full name")
		fs.StringVar(&req.Email, "email", "", "email address")
		fs.StringVar(&req.Department, "dept", "", "department: "+strings.Join(employee.DepartmentNames(), ", "))
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}
		created, err := a.employees.Create(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Created %s (%s) with id %d\n", created.FullName, created.EmployeeID, created.ID)
		return nil

	case "delete":
		fs := flag.NewFlagSet("employees delete", flag.ContinueOnError)
		id := fs.Int64("id", 0, "numeric employee id")
		yes := fs.Bool("yes", false, "skip confirmation")
		if err := fs.Parse(args[1:]); err != nil || *id <= 0 {
			return errUsage
		}
		if !*yes && !confirm(a.in, a.out, fmt.Sprintf("Delete employee %d and their attendance history?", *id)) {
			fmt.Fprintln(a.out, "Aborted")
			return nil
		}
		if err := a.employees.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted employee %d\n", *id)
		return nil

	default:
		return errUsage
	}
}

func (a *app) listEmployees(ctx context.Context, search string) error {
	var list []employee.EmployeeResponse
	if strings.TrimSpace(search) != "" {
		list = a.employees.Search(ctx, search)
	} else {
		a.employees.FetchAll(ctx)
		list = a.employees.Employees()
	}
	if err := a.employees.Err(); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMPLOYEE ID\tNAME\tEMAIL\tDEPARTMENT")
	for _, e := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.EmployeeID, e.FullName, e.Email, e.Department)
	}
	return tw.Flush()
}

// findEmployees reads queries line by line and prints the results of each
// query that stays current for the debounce delay.
func (a *app) findEmployees(ctx context.Context) error {
	var (
		mu      sync.Mutex
		settled *string
		changed = make(chan struct{}, 1)
	)
	searcher := store.NewSearcher(a.employees, a.cfg.SearchDebounce, func(query string, results []employee.EmployeeResponse) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(a.out, "%q: %d match(es)\n", query, len(results))
		for _, e := range results {
			fmt.Fprintf(a.out, "  %s  %s  <%s>  %s\n", e.EmployeeID, e.FullName, e.Email, e.Department)
		}
		settled = &query
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer searcher.Close()

	var (
		last  string
		typed bool
	)
	scanner := bufio.NewScanner(a.in)
	for scanner.Scan() {
		last, typed = scanner.Text(), true
		searcher.Input(last)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if !typed {
		return nil
	}

	deadline := time.After(a.cfg.SearchDebounce + a.cfg.RequestTimeout)
	for {
		mu.Lock()
		done := settled != nil && *settled == last
		mu.Unlock()
		if done {
			return a.employees.Err()
		}

		select {
		case <-changed:
		case <-deadline:
			return fmt.Errorf("search for %q did not complete", last)
		case <-ctx.Done():
			return nil
		}
	}
}

// resolveEmployee finds one employee by exact employee ID, numeric id or a
// query matching exactly one employee. The directory must already be loaded.
func (a *app) resolveEmployee(key string) (employee.EmployeeResponse, error) {
	directory := a.employees.Employees()
	for _, e := range directory {
		if strings.EqualFold(e.EmployeeID, key) || fmt.Sprint(e.ID) == key {
			return e, nil
		}
	}

	var chosen *employee.EmployeeResponse
	picker := history.NewPicker(false, func(e *employee.EmployeeResponse) { chosen = e })
	picker.SetEmployees(directory)
	picker.Type(key)

	switch opts := picker.Options(); len(opts) {
	case 0:
		return employee.EmployeeResponse{}, fmt.Errorf("no employee matches %q", key)
	case 1:
		picker.HandleKey(history.KeyDown)
		picker.HandleKey(history.KeyEnter)
		return *chosen, nil
	default:
		labels := make([]string, len(opts))
		for i, o := range opts {
			labels[i] = o.Label()
		}
		return employee.EmployeeResponse{}, fmt.Errorf("%q matches several employees: %s", key, strings.Join(labels, ", "))
	}
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
