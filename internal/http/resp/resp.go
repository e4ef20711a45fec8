// Package resp defines the uniform response envelope for non-streaming
// results. Streaming responses are raw event-stream bodies and bypass the
// envelope entirely.
package resp

import (
	"encoding/json"
	"net/http"
)

// Envelope codes carried in every non-streaming response body.
const (
	CodeSuccess         = 0
	CodeClientError     = 400
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeTooManyRequests = 429
	CodeServerError     = 500
)

// Envelope wraps every non-streaming result: Data is the payload on success
// and a human-readable diagnostic string on failure.
type Envelope struct {
	Code int `json:"code"`
	Data any `json:"data"`
}

// Success writes a 200 response with a success envelope.
func Success(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, CodeSuccess, data)
}

// Error writes a failure envelope; the envelope code doubles as the HTTP
// status.
func Error(w http.ResponseWriter, code int, message string) {
	write(w, code, code, message)
}

func write(w http.ResponseWriter, status, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Code: code, Data: data})
}
