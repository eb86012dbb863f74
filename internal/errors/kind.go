// Package errors defines the typed failures the catalog client distinguishes.
package errors

import (
	"context"
	stdErrors "errors"
)

// Kind classifies an error so callers can branch without parsing text.
type Kind string

const (
	KindUnknown    Kind = "unknown"
	KindTransport  Kind = "transport"
	KindRateLimit  Kind = "rate_limit"
	KindValidation Kind = "validation"
	KindCanceled   Kind = "canceled"
)

// KindOf reports the kind of err. Cancellation wins over the transport kind
// that usually wraps it.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case stdErrors.Is(err, context.Canceled), stdErrors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case IsRateLimitError(err):
		return KindRateLimit
	case IsTransportError(err):
		return KindTransport
	case IsValidationError(err):
		return KindValidation
	default:
		return KindUnknown
	}
}

// Message returns err's text, or fallback when the error carries none.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
