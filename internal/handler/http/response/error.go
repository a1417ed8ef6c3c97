package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-lite/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/validator"
)

// Request parts used as the first loc segment of validation entries.
const (
	PartBody  = "body"
	PartQuery = "query"
	PartPath  = "path"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	HandleErrorIn(w, PartBody, err)
}

// HandleErrorIn is HandleError with validation errors located in part.
func HandleErrorIn(w http.ResponseWriter, part string, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, part, fieldErrors(validationErrs))
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeIDExists),
		errors.Is(err, employee.ErrEmailExists):
		Conflict(w, capitalize(err.Error()))
	case errors.Is(err, employee.ErrInvalidID):
		BadRequest(w, "Invalid employee id")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		NotFound(w, capitalize(err.Error()))
	case errors.Is(err, attendance.ErrAlreadyMarked):
		Conflict(w, capitalize(err.Error()))
	case errors.Is(err, attendance.ErrFutureDate),
		errors.Is(err, attendance.ErrInvalidDateRange):
		BadRequest(w, capitalize(err.Error()))

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

func fieldErrors(errs validator.ValidationErrors) []FieldError {
	fields := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, FieldError{
			Loc:  []string{e.Field},
			Msg:  e.Message,
			Type: "value_error",
		})
	}
	return fields
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
