package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when a book lookup yields no usable record.
var ErrNotFound = errors.New("book not found")

// APIError is a non-successful answer from the backend: an HTTP error status,
// or a 2xx response whose envelope reports failure.
type APIError struct {
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

// Unauthorized reports whether the backend rejected the credential.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Message returns the server-provided message carried by err, or fallback when
// there is none (transport failures, decode errors, bare statuses).
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
