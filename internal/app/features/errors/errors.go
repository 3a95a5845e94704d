// internal/app/features/errors/errors.go

// Package errors centralizes the JSON error responses the feature handlers
// emit, so a failing store call is logged once with context and the client
// always receives the same envelope shape.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/udyoghq/udyog/internal/app/system/opserr"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures and writes the matching JSON response.
type ErrorLogger struct {
	Log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// envelope is the error response body: a user-facing message plus optional
// per-field validation messages.
type envelope struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSON writes v as the response body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// LogBadRequest logs a malformed request and answers 400.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, what string, err error, userMsg string) {
	e.Log.Warn(what,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	JSON(w, http.StatusBadRequest, envelope{Error: userMsg})
}

// LogServerError logs an internal failure and answers 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, what string, err error, userMsg string) {
	e.Log.Error(what,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	JSON(w, http.StatusInternalServerError, envelope{Error: userMsg})
}

// NotFound answers 404 without logging; missing records are routine.
func (e *ErrorLogger) NotFound(w http.ResponseWriter, userMsg string) {
	JSON(w, http.StatusNotFound, envelope{Error: userMsg})
}

// Validation answers 422 with per-field messages.
func (e *ErrorLogger) Validation(w http.ResponseWriter, v *opserr.ValidationError) {
	JSON(w, http.StatusUnprocessableEntity, envelope{
		Error:  "Validation failed.",
		Fields: v.Fields,
	})
}

// Message answers the given status with a plain message envelope.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, envelope{Error: msg})
}
