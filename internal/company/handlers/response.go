package handlers

import (
	"net/http"
	"time"
)

// Envelope is the uniform JSON body returned by every endpoint, success or
// failure. Success is derived from the status code; the timestamp is set at
// construction. Pure construction, no side effects.
type Envelope struct {
	Success    bool     `json:"success"`
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Data       any      `json:"data,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	Timestamp  string   `json:"timestamp"`
	Path       string   `json:"path,omitempty"`
}

// NewEnvelope builds an envelope for the given status and message.
// Success is true for every status below 400.
func NewEnvelope(statusCode int, message string) Envelope {
	return Envelope{
		Success:    statusCode < http.StatusBadRequest,
		StatusCode: statusCode,
		Message:    message,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

// WithData attaches a payload.
func (e Envelope) WithData(data any) Envelope {
	e.Data = data
	return e
}

// WithErrors attaches the ordered list of error details.
func (e Envelope) WithErrors(errs []string) Envelope {
	e.Errors = errs
	return e
}

// WithPath records the request path the envelope answers.
func (e Envelope) WithPath(path string) Envelope {
	e.Path = path
	return e
}
