package spacex

import (
	"errors"
	"fmt"
)

// ConnectionError reports that the API could not be reached, or that it
// answered with a status other than 2xx.
type ConnectionError struct {
	// Op is the fetch operation, e.g. "get_next_launch".
	Op string
	// URL is the requested URL.
	URL string
	// StatusCode is the HTTP status, zero if no response was received.
	StatusCode int
	// Err is the underlying transport error, if any.
	Err error
}

func (e *ConnectionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: connection error: %s returned status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: connection error: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ValidationError reports that a response body was not a usable payload.
type ValidationError struct {
	// Op is the fetch operation, e.g. "get_roadster_status".
	Op string
	// Reason is a short description of what was wrong with the payload.
	Reason string
	// Err is the decoding or validation error, if any.
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: invalid payload: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: invalid payload: %s", e.Op, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsConnectionError reports whether err wraps a [ConnectionError].
func IsConnectionError(err error) (*ConnectionError, bool) {
	var connErr *ConnectionError
	ok := errors.As(err, &connErr)
	return connErr, ok
}

// IsValidationError reports whether err wraps a [ValidationError].
func IsValidationError(err error) (*ValidationError, bool) {
	var valErr *ValidationError
	ok := errors.As(err, &valErr)
	return valErr, ok
}
