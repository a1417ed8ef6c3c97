package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyMarked    = errors.New("attendance already marked")
	ErrFutureDate       = errors.New("date cannot be in the future")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidDateRange = errors.New("from_date must not be after to_date")
)
