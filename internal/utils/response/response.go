// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
package response

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope.
//
// Error responses always look like:
//
//	{ "status": "error", "error": "validation failed",
//	  "fields": { "fullName": "Full name is required" } }
//
// Success responses may return any JSON shape (an employee, a list…).
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string            `json:"status"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Status string constants — use these instead of raw string literals so
// a typo is caught by the compiler rather than silently sending "eroor".
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into our standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError reports per-field messages so the client can annotate
// each offending form field.
//
//	{ "status": "error", "error": "validation failed",
//	  "fields": { "dateOfBirth": "Date of birth cannot be in the future" } }
func ValidationError(fields map[string]string) Response {
	return Response{
		Status: StatusError,
		Error:  "validation failed",
		Fields: fields,
	}
}

// SetWarning attaches a non-blocking warning to a successful response:
// the command was applied but err says something went wrong on the side
// (typically the change could not be persisted). Call before WriteJSON.
//
// It uses the standard HTTP Warning header (code 199, miscellaneous).
func SetWarning(w http.ResponseWriter, err error) {
	w.Header().Set("Warning", `199 - "`+strings.ReplaceAll(err.Error(), `"`, `'`)+`"`)
}
