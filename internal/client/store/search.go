package store

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/debounce"
)

// Searcher coalesces keystrokes into one directory search per idle period.
// Results for a query superseded by newer input, or arriving after Close, are
// dropped.
type Searcher struct {
	store     *Employees
	debouncer *debounce.Debouncer
	onResults func(query string, results []employee.EmployeeResponse)

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
}

func NewSearcher(store *Employees, delay time.Duration, onResults func(query string, results []employee.EmployeeResponse)) *Searcher {
	return &Searcher{
		store:     store,
		debouncer: debounce.New(delay),
		onResults: onResults,
	}
}

// Input records a keystroke; the search runs once input has been idle for the delay.
func (s *Searcher) Input(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelInFlightLocked()

	s.debouncer.Trigger(func() {
		ctx, cancel := s.startSearch()
		if ctx == nil {
			return
		}
		defer cancel()

		results := s.store.Search(ctx, query)
		if ctx.Err() == nil {
			s.onResults(query, results)
		}
	})
}

// Close cancels any pending or in-flight search.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.debouncer.Stop()
	s.cancelInFlightLocked()
}

func (s *Searcher) startSearch() (context.Context, context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, nil
	}
	s.cancelInFlightLocked()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	return ctx, cancel
}

func (s *Searcher) cancelInFlightLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
