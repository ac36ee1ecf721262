package shipper

import (
	"errors"
	"fmt"
)

// CarrierError represents an error from a shipping carrier's API.
type CarrierError struct {
	Carrier    string
	Code       string
	Message    string
	StatusCode int
	Body       string // raw response body, kept for operator diagnosis
	Cause      error
}

// Error implements the error interface.
func (e *CarrierError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Carrier, e.Code, e.Message, e.Cause)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s error (%s): %s: %s", e.Carrier, e.Code, e.Message, e.Body)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Carrier, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CarrierError) Unwrap() error {
	return e.Cause
}

// NewCarrierError creates a new CarrierError.
func NewCarrierError(carrier, code, message string) *CarrierError {
	return &CarrierError{
		Carrier: carrier,
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *CarrierError) WithCause(err error) *CarrierError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *CarrierError) WithStatusCode(code int) *CarrierError {
	e.StatusCode = code
	return e
}

// WithBody attaches the raw response body to the error.
func (e *CarrierError) WithBody(body string) *CarrierError {
	e.Body = body
	return e
}

// Sentinel errors for common shipping scenarios.
var (
	// ErrUnsupportedCarrier indicates the requested carrier is not registered.
	ErrUnsupportedCarrier = errors.New("unsupported carrier")

	// ErrMissingCredentials indicates required credential fields are empty.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrNoQuote indicates the carrier returned no priced service options.
	ErrNoQuote = errors.New("no quote available")

	// ErrTokenUnavailable indicates an OAuth grant did not yield a token.
	ErrTokenUnavailable = errors.New("access token unavailable")
)
