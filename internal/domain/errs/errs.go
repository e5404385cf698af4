// Package errs defines the error kinds every domain operation reports.
// Callers branch on the kind with errors.Is(err, errs.ErrLoanNotPayable) and
// show Error() to humans.
package errs

import (
	"errors"
	"strings"
)

// Kinds. Each *Error matches exactly one of these via errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrLoanNotPayable    = errors.New("loan not payable")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrPersistence       = errors.New("persistence failure")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
)

// FieldError points at one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    error
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Message == "" {
		b.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string, fields ...FieldError) *Error {
	return &Error{Kind: ErrValidation, Message: msg, Fields: fields}
}

func InvalidTransition(from, to string) *Error {
	return &Error{Kind: ErrInvalidTransition, Message: "cannot move loan from " + from + " to " + to}
}

func LoanNotPayable(status string) *Error {
	return &Error{Kind: ErrLoanNotPayable, Message: "loan in status " + status + " does not accept payments"}
}

func NotAuthenticated(msg string) *Error {
	return &Error{Kind: ErrNotAuthenticated, Message: msg}
}

func NotFound(what string) *Error {
	return &Error{Kind: ErrNotFound, Message: what + " not found"}
}

func Conflict(msg string) *Error {
	return &Error{Kind: ErrConflict, Message: msg}
}

// Persistence wraps a storage or network failure. A nil cause yields nil.
func Persistence(op string, cause error) error {
	if cause == nil {
		return nil
	}
	var de *Error
	if errors.As(cause, &de) {
		return cause
	}
	return &Error{Kind: ErrPersistence, Message: op, Err: cause}
}

// FieldsOf returns the field details carried by err, if any.
func FieldsOf(err error) []FieldError {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}

// KindOf returns the kind sentinel of err, or nil for errors outside this package.
func KindOf(err error) error {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return nil
}
