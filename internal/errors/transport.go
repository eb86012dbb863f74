package errors

import (
	stdErrors "errors"
	"fmt"
)

// TransportError is a failed call to the catalog server. StatusCode is zero
// when the request never produced an HTTP response.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Message == "":
		return e.Op + ": request failed"
	case e.StatusCode == 0:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Message == "":
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError for an HTTP status answer
func NewTransportError(op string, statusCode int, message string) *TransportError {
	return &TransportError{Op: op, StatusCode: statusCode, Message: message}
}

// NewNetworkError wraps a failure that happened before any response arrived
func NewNetworkError(op string, err error) *TransportError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &TransportError{Op: op, Message: msg, Err: err}
}

// IsTransportError checks if err is a TransportError
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return stdErrors.As(err, &transportErr)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var transportErr *TransportError
	if stdErrors.As(err, &transportErr) {
		return transportErr.StatusCode
	}
	return 0
}
