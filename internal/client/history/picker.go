package history

import (
	"sync"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
)

// Key is a navigation key understood by the picker.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyEnter
	KeyEscape
)

// AllEmployeesLabel is the option that clears the employee axis.
const AllEmployeesLabel = "All Employees"

// Option is one row of the picker. A nil Employee is the "All Employees" row.
type Option struct {
	Employee *employee.EmployeeResponse
}

func (o Option) Label() string {
	if o.Employee == nil {
		return AllEmployeesLabel
	}
	return o.Employee.FullName + " (" + o.Employee.EmployeeID + ")"
}

// Picker is a type-to-filter employee selector over an already fetched
// directory. It never issues network calls.
type Picker struct {
	showAll  bool
	onSelect func(*employee.EmployeeResponse)

	mu        sync.Mutex
	employees []employee.EmployeeResponse
	query     string
	open      bool
	cursor    int
}

// NewPicker builds a picker. onSelect receives the chosen employee, or nil for
// "All Employees".
func NewPicker(showAll bool, onSelect func(*employee.EmployeeResponse)) *Picker {
	return &Picker{showAll: showAll, onSelect: onSelect, cursor: -1}
}

// SetEmployees replaces the directory the picker filters over.
func (p *Picker) SetEmployees(employees []employee.EmployeeResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.employees = append([]employee.EmployeeResponse(nil), employees...)
	p.cursor = -1
}

// Type replaces the query, opens the list and resets the cursor.
func (p *Picker) Type(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = query
	p.open = true
	p.cursor = -1
}

func (p *Picker) Open() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
}

func (p *Picker) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *Picker) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Cursor is the highlighted option index, or -1 when nothing is highlighted.
func (p *Picker) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Options lists the matching employees, preceded by "All Employees" when enabled.
func (p *Picker) Options() []Option {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.optionsLocked()
}

func (p *Picker) optionsLocked() []Option {
	var opts []Option
	if p.showAll {
		opts = append(opts, Option{})
	}
	for i := range p.employees {
		if p.employees[i].MatchesQuery(p.query) {
			e := p.employees[i]
			opts = append(opts, Option{Employee: &e})
		}
	}
	return opts
}

// HandleKey moves the cursor or commits the highlighted option. A closed
// picker opens on down or enter. It reports whether a selection was made.
func (p *Picker) HandleKey(key Key) bool {
	p.mu.Lock()

	if !p.open {
		if key == KeyDown || key == KeyEnter {
			p.open = true
		}
		p.mu.Unlock()
		return false
	}

	opts := p.optionsLocked()
	switch key {
	case KeyDown:
		if p.cursor < len(opts)-1 {
			p.cursor++
		}
	case KeyUp:
		if p.cursor >= 0 {
			p.cursor--
		}
	case KeyEscape:
		p.open = false
		p.cursor = -1
	case KeyEnter:
		if p.cursor >= 0 && p.cursor < len(opts) {
			chosen := opts[p.cursor].Employee
			p.query = ""
			p.open = false
			p.cursor = -1
			p.mu.Unlock()

			if p.onSelect != nil {
				p.onSelect(chosen)
			}
			return true
		}
	}

	p.mu.Unlock()
	return false
}
