package handlers

import (
	"encoding/json"
	"net/http"
)

// Envelope wraps successful auth responses.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

// ErrorBody is the uniform error response.
type ErrorBody struct {
	StatusCode int               `json:"statusCode"`
	Message    string            `json:"message"`
	Error      string            `json:"error"`
	Errors     map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorBody with the given status and message.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorBody{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}

func writeValidationError(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, ErrorBody{
		StatusCode: http.StatusBadRequest,
		Message:    "Validation failed",
		Error:      http.StatusText(http.StatusBadRequest),
		Errors:     fields,
	})
}
