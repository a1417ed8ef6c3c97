package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse carries a business error message.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// FieldError is one entry of a validation error body.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationErrorResponse lists every rejected field.
type ValidationErrorResponse struct {
	Detail []FieldError `json:"detail"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "status", statusCode, "error", err)
	}
}

// Success responses
func JSON(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error responses
func Detail(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Detail: message})
}

func BadRequest(w http.ResponseWriter, message string) {
	Detail(w, http.StatusBadRequest, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Detail(w, http.StatusNotFound, message)
}

func Conflict(w http.ResponseWriter, message string) {
	Detail(w, http.StatusConflict, message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Detail(w, http.StatusInternalServerError, message)
}

// ValidationError writes a 422 whose entries locate each field in the given request part.
func ValidationError(w http.ResponseWriter, part string, fields []FieldError) {
	for i := range fields {
		fields[i].Loc = append([]string{part}, fields[i].Loc...)
	}
	writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Detail: fields})
}
