// Package errors provides structured error types used across the application.
// We prefer these over raw fmt.Errorf strings to enable reliable checks with
// errors.Is / errors.As and to carry minimal context about the failure.
package errors

import (
	"errors"
	"fmt"
)

// ValidationError indicates invalid input provided by a caller/user.
type ValidationError struct {
	Op    string // where it happened (package.Function)
	Field string // offending field, optional
	Msg   string // human friendly message
	Err   error  // underlying cause (optional)
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("validation: %s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("validation: %s: %s", e.Op, msg)
}

func (e *ValidationError) Unwrap() error     { return e.Err }
func (e *ValidationError) Operation() string { return e.Op }
func (e *ValidationError) Message() string   { return e.Msg }
func (e *ValidationError) Context() map[string]any {
	return map[string]any{"op": e.Op, "msg": e.Msg, "field": e.Field}
}

func NewValidation(op, msg string, err error) error {
	return &ValidationError{Op: op, Msg: msg, Err: err}
}

// NewFieldValidation is NewValidation for a single named field.
func NewFieldValidation(op, field, msg string) error {
	return &ValidationError{Op: op, Field: field, Msg: msg}
}

// NotFoundError is returned when a hotel, slug, room or catalog entry does not exist.
type NotFoundError struct {
	Op  string
	Msg string
	Err error
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("not found: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("not found: %s: %s", e.Op, e.Msg)
}

func (e *NotFoundError) Unwrap() error           { return e.Err }
func (e *NotFoundError) Operation() string       { return e.Op }
func (e *NotFoundError) Message() string         { return e.Msg }
func (e *NotFoundError) Context() map[string]any { return map[string]any{"op": e.Op, "msg": e.Msg} }

func NewNotFound(op, msg string) error { return &NotFoundError{Op: op, Msg: msg} }

// InvalidStateError means the operation is not allowed in the current session state,
// e.g. a mutation with no open hotel or opening a hotel over unsaved edits.
type InvalidStateError struct {
	Op    string
	State string
	Msg   string
	Err   error
}

func (e *InvalidStateError) Error() string {
	if e == nil {
		return "<nil>"
	}
	s := fmt.Sprintf("invalid state: %s: %s", e.Op, e.Msg)
	if e.State != "" {
		s += " (state " + e.State + ")"
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *InvalidStateError) Unwrap() error     { return e.Err }
func (e *InvalidStateError) Operation() string { return e.Op }
func (e *InvalidStateError) Message() string   { return e.Msg }
func (e *InvalidStateError) Context() map[string]any {
	return map[string]any{"op": e.Op, "msg": e.Msg, "state": e.State}
}

// NewInvalidState wraps one of the sentinel reasons below (may be nil).
func NewInvalidState(op, state string, reason error) error {
	msg := "operation not allowed"
	if reason != nil {
		msg = reason.Error()
	}
	return &InvalidStateError{Op: op, State: state, Msg: msg, Err: reason}
}

// ConflictError reports that the catalog entry changed underneath a draft.
type ConflictError struct {
	Op       string
	Msg      string
	Expected uint64
	Actual   uint64
}

func (e *ConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("conflict: %s: %s (expected version %d, found %d)", e.Op, e.Msg, e.Expected, e.Actual)
}

func (e *ConflictError) Operation() string { return e.Op }
func (e *ConflictError) Message() string   { return e.Msg }
func (e *ConflictError) Context() map[string]any {
	return map[string]any{"op": e.Op, "msg": e.Msg, "expected": e.Expected, "actual": e.Actual}
}

func NewStaleOverwrite(op string, expected, actual uint64) error {
	return &ConflictError{Op: op, Msg: "catalog entry was modified since the draft was opened", Expected: expected, Actual: actual}
}

// DBError represents database access/operation failures.
type DBError struct {
	Op  string
	Msg string
	Err error
}

func (e *DBError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("db: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("db: %s: %s", e.Op, e.Msg)
}

func (e *DBError) Unwrap() error           { return e.Err }
func (e *DBError) Operation() string       { return e.Op }
func (e *DBError) Message() string         { return e.Msg }
func (e *DBError) Context() map[string]any { return map[string]any{"op": e.Op, "msg": e.Msg} }

func NewDB(op, msg string, err error) error { return &DBError{Op: op, Msg: msg, Err: err} }

// Reasons carried inside InvalidStateError.
var (
	ErrNoSession      = errors.New("no hotel is open for editing")
	ErrUnsavedChanges = errors.New("draft has unsaved changes; save, publish or discard first")
	ErrNothingToSave  = errors.New("draft has no unsaved changes")
	ErrSessionLimit   = errors.New("too many open draft sessions")
)

// IsKind helpers: allow callers to check error kind without type assertions.
// Example: if errors.Is(err, errors.ErrNotFound) { ... }
var (
	ErrValidation     = &ValidationError{}
	ErrNotFound       = &NotFoundError{}
	ErrInvalidState   = &InvalidStateError{}
	ErrStaleOverwrite = &ConflictError{}
	ErrDB             = &DBError{}
)

// Is enables errors.Is(err, ErrValidation) via errors.As semantics.
// We delegate to errors.As with the zero-value pointer of each type.
func Is(err, target error) bool {
	if err == nil || target == nil {
		return errors.Is(err, target)
	}
	switch target.(type) {
	case *ValidationError:
		var v *ValidationError
		return errors.As(err, &v)
	case *NotFoundError:
		var n *NotFoundError
		return errors.As(err, &n)
	case *InvalidStateError:
		var s *InvalidStateError
		return errors.As(err, &s)
	case *ConflictError:
		var c *ConflictError
		return errors.As(err, &c)
	case *DBError:
		var d *DBError
		return errors.As(err, &d)
	default:
		return errors.Is(err, target)
	}
}
