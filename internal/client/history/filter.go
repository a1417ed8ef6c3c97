// Package history drives the filtered attendance history: the filter axes,
// the employee picker and the spreadsheet export.
package history

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/dates"
)

// Fetcher receives the recomputed criteria after every change.
type Fetcher interface {
	FetchFiltered(ctx context.Context, filter attendance.AttendanceFilter)
}

// Filter holds three independent axes (employee, departments, date range).
// Every change recomputes the criteria and forwards them to the fetcher; a
// change that would produce invalid criteria is rejected and leaves the
// previous criteria in place.
type Filter struct {
	fetcher Fetcher
	now     func() time.Time

	mu       sync.Mutex
	criteria attendance.AttendanceFilter
}

func NewFilter(fetcher Fetcher, now func() time.Time) *Filter {
	if now == nil {
		now = time.Now
	}
	return &Filter{fetcher: fetcher, now: now}
}

// Criteria returns a copy of the current criteria.
func (f *Filter) Criteria() attendance.AttendanceFilter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneCriteria(f.criteria)
}

// Load fetches the history under the current criteria.
func (f *Filter) Load(ctx context.Context) {
	f.fetcher.FetchFiltered(ctx, f.Criteria())
}

// SelectEmployee narrows the history to one employee; nil means all employees.
// The department and date axes are kept.
func (f *Filter) SelectEmployee(ctx context.Context, employeeID *int64) error {
	return f.Batch(ctx, func(b *Batch) error {
		b.SelectEmployee(employeeID)
		return nil
	})
}

// SetDepartments replaces the department set. Blank and repeated names are dropped.
func (f *Filter) SetDepartments(ctx context.Context, departments []string) error {
	return f.Batch(ctx, func(b *Batch) error {
		b.SetDepartments(departments)
		return nil
	})
}

// SetDateRange sets both ends of the inclusive range. Either end may be empty.
func (f *Filter) SetDateRange(ctx context.Context, from, to string) error {
	return f.Batch(ctx, func(b *Batch) error {
		b.SetDateRange(from, to)
		return nil
	})
}

// ApplyPreset fills both ends of the range from a preset computed against the
// current day.
func (f *Filter) ApplyPreset(ctx context.Context, name string) error {
	return f.Batch(ctx, func(b *Batch) error {
		return b.ApplyPreset(name)
	})
}

// Clear drops every axis.
func (f *Filter) Clear(ctx context.Context) error {
	return f.Batch(ctx, func(b *Batch) error {
		b.criteria = attendance.AttendanceFilter{}
		return nil
	})
}

// Batch applies several changes as one: the criteria are validated and
// forwarded once, after fn returns. If fn fails or the result is invalid,
// nothing is forwarded and the previous criteria stay in place.
func (f *Filter) Batch(ctx context.Context, fn func(*Batch) error) error {
	f.mu.Lock()
	b := &Batch{criteria: cloneCriteria(f.criteria), now: f.now}
	if err := fn(b); err != nil {
		f.mu.Unlock()
		return err
	}
	if err := b.criteria.Validate(); err != nil {
		f.mu.Unlock()
		return err
	}
	f.criteria = b.criteria
	next := cloneCriteria(b.criteria)
	f.mu.Unlock()

	f.fetcher.FetchFiltered(ctx, next)
	return nil
}

// Batch is a draft of the criteria inside Filter.Batch.
type Batch struct {
	criteria attendance.AttendanceFilter
	now      func() time.Time
}

func (b *Batch) SelectEmployee(employeeID *int64) {
	if employeeID == nil {
		b.criteria.EmployeeID = nil
		return
	}
	id := *employeeID
	b.criteria.EmployeeID = &id
}

func (b *Batch) SetDepartments(departments []string) {
	b.criteria.Departments = dedupe(departments)
}

func (b *Batch) SetDateRange(from, to string) {
	b.criteria.FromDate = dates.Normalize(from)
	b.criteria.ToDate = dates.Normalize(to)
}

func (b *Batch) ApplyPreset(name string) error {
	preset, err := dates.PresetByName(name, b.now())
	if err != nil {
		return err
	}
	b.SetDateRange(preset.FromDate, preset.ToDate)
	return nil
}

func cloneCriteria(c attendance.AttendanceFilter) attendance.AttendanceFilter {
	out := c
	if c.EmployeeID != nil {
		id := *c.EmployeeID
		out.EmployeeID = &id
	}
	if c.Departments != nil {
		out.Departments = append([]string(nil), c.Departments...)
	}
	return out
}

func dedupe(values []string) []string {
	var out []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
