// Package serrors provides semantic error kinds for the discovery service.
// A Kind is a comparable sentinel naming an error category; the Error wrapper
// attaches a kind plus an optional message and cause while remaining fully
// compatible with errors.Is/As. The provider-failure kinds form the closed
// classification the fallback router branches on.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a marker interface implemented by sentinels created with NewKind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind sentinel with the given name.
func NewKind(name string) Kind { return kind{s: name} }

// Provider failure classes. The fallback router treats these as a closed set:
// quota and rate-limit failures switch providers immediately, transport
// failures allow one bounded retry, malformed responses count as provider
// failures without retry.
var (
	// ErrQuotaExceeded indicates the provider reports it is out of budget.
	ErrQuotaExceeded = NewKind("QUOTA_EXCEEDED")
	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = NewKind("RATE_LIMITED")
	// ErrTransport indicates a network, timeout or upstream availability failure.
	ErrTransport = NewKind("TRANSPORT")
	// ErrMalformed indicates the provider replied but the payload could not be
	// parsed into the expected schema.
	ErrMalformed = NewKind("MALFORMED_RESPONSE")
)

// Request-level kinds used at the API boundary.
var (
	// ErrBadRequest indicates the client sent invalid data.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrUnauthorized indicates missing or invalid authentication.
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrCancelled indicates the request was aborted by the caller.
	ErrCancelled = NewKind("CANCELLED")
	// ErrInternal indicates an internal error.
	ErrInternal = NewKind("INTERNAL")
)

// Error is a semantic error carrying a kind, an optional wrapped cause and an
// optional message.
//
// Matching semantics: errors.Is/As match against either the kind sentinel or
// the wrapped cause chain.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a semantic error with the given kind and message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a semantic error with the given kind, wrapping cause err.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly constructs a semantic error carrying only the kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

// Unwrap exposes the wrapped cause to errors.Unwrap/Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is matches target against the kind sentinel and the cause chain.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}

	return e.err != nil && errors.Is(e.err, target)
}

// As matches target against the kind sentinel and the cause chain.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}

	return e.err != nil && errors.As(e.err, target)
}

// Kind returns the semantic kind sentinel, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to this error.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause (may be nil).
func (e *Error) Cause() error { return e.err }
