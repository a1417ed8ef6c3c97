package store

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
)

// Employees owns the employee directory.
type Employees struct {
	status
	api API

	mu        sync.RWMutex
	employees []employee.EmployeeResponse
}

func NewEmployees(api API) *Employees {
	return &Employees{api: api, employees: []employee.EmployeeResponse{}}
}

// Employees returns a copy of the directory.
func (s *Employees) Employees() []employee.EmployeeResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]employee.EmployeeResponse(nil), s.employees...)
}

// FetchAll replaces the directory. A failure is recorded in Err and leaves the
// previous directory in place.
func (s *Employees) FetchAll(ctx context.Context) {
	s.begin()

	var fetched []employee.EmployeeResponse
	err := s.api.Get(ctx, employeesPath, nil, &fetched)
	s.end(err)
	if err != nil {
		slog.Warn("Failed to fetch employees", "error", err)
		return
	}

	if fetched == nil {
		fetched = []employee.EmployeeResponse{}
	}
	s.mu.Lock()
	s.employees = fetched
	s.mu.Unlock()
}

// Create validates the candidate locally, submits it and appends the stored
// employee to the directory. Validation failures never reach the backend.
func (s *Employees) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	s.begin()
	var created employee.EmployeeResponse
	err := s.api.Post(ctx, employeesPath, req, &created)
	s.end(err)
	if err != nil {
		slog.Error("Failed to create employee", "employee_id", req.EmployeeID, "error", err)
		return employee.EmployeeResponse{}, err
	}

	s.mu.Lock()
	s.employees = append(s.employees, created)
	s.mu.Unlock()
	return created, nil
}

// Delete removes the employee once the backend confirms; on failure the
// directory is untouched.
func (s *Employees) Delete(ctx context.Context, id int64) error {
	s.begin()
	err := s.api.Delete(ctx, employeesPath+"/"+strconv.FormatInt(id, 10))
	s.end(err)
	if err != nil {
		slog.Error("Failed to delete employee", "id", id, "error", err)
		return err
	}

	s.mu.Lock()
	kept := s.employees[:0:0]
	for _, e := range s.employees {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.employees = kept
	s.mu.Unlock()
	return nil
}

// Search asks the backend for employees matching query and returns them
// without touching the directory. An empty query returns everyone; a failure
// is recorded in Err and yields an empty result. A search cancelled through
// ctx records nothing.
func (s *Employees) Search(ctx context.Context, query string) []employee.EmployeeResponse {
	var params url.Values
	if q := strings.TrimSpace(query); q != "" {
		params = url.Values{"search": {q}}
	}

	s.begin()
	var found []employee.EmployeeResponse
	err := s.api.Get(ctx, employeesPath, params, &found)
	if ctx.Err() != nil {
		// Cancelled by the caller: nobody is waiting for this outcome.
		s.end(nil)
		return []employee.EmployeeResponse{}
	}
	s.end(err)
	if err != nil {
		slog.Warn("Failed to search employees", "query", query, "error", err)
		return []employee.EmployeeResponse{}
	}

	if found == nil {
		found = []employee.EmployeeResponse{}
	}
	return found
}
