// Package clienttest provides an in-memory HRMS backend for client tests.
package clienttest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/client/gateway"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/go-chi/chi/v5"
)

// Request is one call the backend received.
type Request struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   json.RawMessage
}

type failure struct {
	status int
	body   string
}

// Backend mimics the REST API over in-memory collections.
type Backend struct {
	URL string

	mu         sync.Mutex
	employees  []employee.EmployeeResponse
	attendance []attendance.AttendanceResponse
	requests   []Request
	failures   map[string]failure
	markFails  map[int64]failure
	markDelay  time.Duration
	findDelay  time.Duration
	nextEmp    int64
	nextAtt    int64
}

// NewBackend starts the backend and returns a gateway client pointed at it.
func NewBackend(t testing.TB) (*Backend, *gateway.Client) {
	t.Helper()
	b := &Backend{
		failures:  make(map[string]failure),
		markFails: make(map[int64]failure),
	}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": "1.0.0"})
	})
	r.Get("/api/v1/employees", b.listEmployees)
	r.Post("/api/v1/employees", b.createEmployee)
	r.Delete("/api/v1/employees/{id}", b.deleteEmployee)
	r.Get("/api/v1/attendance", b.listAttendance)
	r.Post("/api/v1/attendance", b.markAttendance)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	b.URL = srv.URL
	return b, gateway.New(srv.URL)
}

// AddEmployee seeds an employee and returns it with its assigned id.
func (b *Backend) AddEmployee(employeeID, fullName, email, department string) employee.EmployeeResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextEmp++
	e := employee.EmployeeResponse{
		ID:         b.nextEmp,
		EmployeeID: employeeID,
		FullName:   fullName,
		Email:      email,
		Department: department,
		CreatedAt:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC).Format(time.RFC3339),
	}
	b.employees = append(b.employees, e)
	return e
}

// AddAttendance seeds a record. date may carry a time suffix.
func (b *Backend) AddAttendance(employeeID int64, date string, status attendance.Status) attendance.AttendanceResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextAtt++
	rec := attendance.AttendanceResponse{ID: b.nextAtt, EmployeeID: employeeID, Date: date, Status: status}
	b.attendance = append(b.attendance, rec)
	return rec
}

// Fail makes every method+path call answer with status and body until cleared with status 0.
func (b *Backend) Fail(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(b.failures, key)
		return
	}
	b.failures[key] = failure{status: status, body: body}
}

// FailMarksFor rejects attendance marks for one employee.
func (b *Backend) FailMarksFor(employeeID int64, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.markFails[employeeID] = failure{status: status, body: body}
}

// SetMarkDelay slows every attendance mark down.
func (b *Backend) SetMarkDelay(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.markDelay = d
}

// SetSearchDelay holds every employee search until the delay passes or the
// caller gives up.
func (b *Backend) SetSearchDelay(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.findDelay = d
}

// Requests returns the calls received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// RequestsTo returns the calls with the given method and path.
func (b *Backend) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Attendance returns the stored records.
func (b *Backend) Attendance() []attendance.AttendanceResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]attendance.AttendanceResponse(nil), b.attendance...)
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(raw))
		var body json.RawMessage
		if len(bytes.TrimSpace(raw)) > 0 {
			body = raw
		}

		b.mu.Lock()
		b.requests = append(b.requests, Request{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Body: body})
		f, failing := b.failures[r.Method+" "+r.URL.Path]
		b.mu.Unlock()

		if failing {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (b *Backend) listEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("search")

	b.mu.Lock()
	delay := b.findDelay
	b.mu.Unlock()
	if q != "" && delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	b.mu.Lock()
	out := make([]employee.EmployeeResponse, 0, len(b.employees))
	for _, e := range b.employees {
		if e.MatchesQuery(q) {
			out = append(out, e)
		}
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid request format"})
		return
	}

	b.mu.Lock()
	for _, e := range b.employees {
		if e.EmployeeID == req.EmployeeID {
			b.mu.Unlock()
			writeJSON(w, http.StatusConflict, map[string]string{"detail": fmt.Sprintf("Employee ID already exists: %s", req.EmployeeID)})
			return
		}
	}
	b.mu.Unlock()

	created := b.AddEmployee(req.EmployeeID, req.FullName, req.Email, req.Department)
	writeJSON(w, http.StatusCreated, created)
}

func (b *Backend) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.employees {
		if e.ID == id {
			b.employees = append(b.employees[:i], b.employees[i+1:]...)
			kept := b.attendance[:0]
			for _, a := range b.attendance {
				if a.EmployeeID != id {
					kept = append(kept, a)
				}
			}
			b.attendance = kept
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Employee not found"})
}

func (b *Backend) listAttendance(w http.ResponseWriter, r *http.Request) {
	filter, err := attendance.ParseFilter(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	b.mu.Lock()
	departments := make(map[int64]string, len(b.employees))
	for _, e := range b.employees {
		departments[e.ID] = e.Department
	}
	out := make([]attendance.AttendanceResponse, 0, len(b.attendance))
	for _, a := range b.attendance {
		if matches(filter, a, departments[a.EmployeeID]) {
			out = append(out, a)
		}
	}
	b.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day() != out[j].Day() {
			return out[i].Day() > out[j].Day()
		}
		return out[i].ID > out[j].ID
	})
	writeJSON(w, http.StatusOK, out)
}

func matches(f attendance.AttendanceFilter, a attendance.AttendanceResponse, department string) bool {
	if f.EmployeeID != nil && *f.EmployeeID != a.EmployeeID {
		return false
	}
	if f.FromDate != "" && a.Day() < f.FromDate {
		return false
	}
	if f.ToDate != "" && a.Day() > f.ToDate {
		return false
	}
	if len(f.Departments) == 0 {
		return true
	}
	for _, d := range f.Departments {
		if d == department {
			return true
		}
	}
	return false
}

func (b *Backend) markAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid request format"})
		return
	}

	b.mu.Lock()
	delay := b.markDelay
	f, failing := b.markFails[req.EmployeeID]
	b.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if failing {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.attendance {
		if a.EmployeeID == req.EmployeeID && a.Day() == req.Date {
			writeJSON(w, http.StatusConflict, map[string]string{
				"detail": fmt.Sprintf("Attendance already marked: employee %d on %s", req.EmployeeID, req.Date),
			})
			return
		}
	}

	b.nextAtt++
	rec := attendance.AttendanceResponse{
		ID:         b.nextAtt,
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		Status:     req.Status,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	b.attendance = append(b.attendance, rec)
	writeJSON(w, http.StatusCreated, rec)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
