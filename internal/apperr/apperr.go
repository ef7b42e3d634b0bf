// Package apperr defines the failure taxonomy shared by every ledger
// operation. Services return these; the HTTP layer maps each kind to a
// status code without inspecting message text.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindNotFound: entity absent or not owned by the calling tenant.
	KindNotFound Kind = iota + 1
	// KindInvalidState: operation illegal in the entity's current state
	// (double-open session, closing a closed session, depleted batch).
	KindInvalidState
	// KindInsufficientStock: requested quantity exceeds availability.
	KindInsufficientStock
	// KindPolicyViolation: business rule breach (credit overpayment).
	KindPolicyViolation
	// KindConflict: concurrent-writer collision; the caller may retry.
	KindConflict
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// WithCause attaches the underlying error for logging while keeping the
// kind and message client-safe.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// Is makes errors.Is(err, apperr.NotFound("")) match on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

func InsufficientStock(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficientStock, Msg: fmt.Sprintf(format, args...)}
}

func PolicyViolation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPolicyViolation, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err when it is (or wraps) an *Error, else 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
