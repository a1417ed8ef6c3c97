// Package store holds the client's single copy of the employee directory and
// the attendance history. All mutation goes through the store's operations;
// accessors hand out copies.
package store

import (
	"context"
	"net/url"
	"sync"
)

const (
	employeesPath  = "/api/v1/employees"
	attendancePath = "/api/v1/attendance"
)

// API is the subset of the gateway the stores call.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body interface{}, out interface{}) error
	Delete(ctx context.Context, path string) error
}

// status tracks the loading indicator and the last recorded error.
type status struct {
	smu     sync.RWMutex
	loading int
	err     error
}

func (s *status) begin() {
	s.smu.Lock()
	s.loading++
	s.err = nil
	s.smu.Unlock()
}

func (s *status) end(err error) {
	s.smu.Lock()
	s.loading--
	if err != nil {
		s.err = err
	}
	s.smu.Unlock()
}

// Err returns the error recorded by the most recent failed operation, or nil
// once a later operation has started.
func (s *status) Err() error {
	s.smu.RLock()
	defer s.smu.RUnlock()
	return s.err
}

// Loading reports whether any call is in flight.
func (s *status) Loading() bool {
	s.smu.RLock()
	defer s.smu.RUnlock()
	return s.loading > 0
}
