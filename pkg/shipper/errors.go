package shipper

import (
	"errors"
	"fmt"

	"github.com/tournevent/aramex/pkg/wire"
)

// ErrorKind classifies a failure so callers can branch without parsing text.
type ErrorKind string

const (
	// KindValidation means the caller's input was rejected before any network call.
	KindValidation ErrorKind = "validation"
	// KindConfiguration means credentials or an operation descriptor are missing.
	KindConfiguration ErrorKind = "configuration"
	// KindTransport means the call did not produce a usable response.
	KindTransport ErrorKind = "transport"
	// KindCarrier means the carrier answered and flagged the operation as failed.
	KindCarrier ErrorKind = "carrier"
)

// Notification is one carrier-reported (or validator-reported) problem.
type Notification struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Error represents a failure of a carrier operation.
type Error struct {
	Carrier    string
	Operation  string
	Kind       ErrorKind
	Code       string
	Message    string
	Details    []Notification
	StatusCode int
	Retryable  bool
	// Response is the decoded carrier payload, when there was one.
	Response wire.Node
	// Raw is the undecoded response body, kept for offline diagnosis.
	Raw   []byte
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s error", e.Carrier, e.Kind)
	if e.Operation != "" {
		msg += " in " + e.Operation
	}
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by code when the target carries one, otherwise
// by kind. This lets the kind sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	return t.Kind != "" && e.Kind == t.Kind
}

// NewError creates a new Error.
func NewError(carrier string, kind ErrorKind, message string) *Error {
	return &Error{
		Carrier:   carrier,
		Kind:      kind,
		Message:   message,
		Retryable: kind == KindTransport,
	}
}

// WithOperation records the carrier operation that failed.
func (e *Error) WithOperation(op string) *Error {
	e.Operation = op
	return e
}

// WithCode sets the carrier or fault code.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *Error) WithStatusCode(code int) *Error {
	e.StatusCode = code
	return e
}

// WithDetails attaches the full list of notifications.
func (e *Error) WithDetails(details []Notification) *Error {
	e.Details = details
	return e
}

// WithResponse keeps the carrier payload that caused the error.
func (e *Error) WithResponse(resp wire.Node, raw []byte) *Error {
	e.Response = resp
	e.Raw = raw
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// Kind sentinels, usable with errors.Is.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrTransport     = &Error{Kind: KindTransport}
	ErrCarrier       = &Error{Kind: KindCarrier}
)

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsRetryable reports whether err is worth retrying. Nothing in this module
// retries on its own; the hint is for callers.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}
