package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// NotFoundError indicates that the requested entity does not exist.
type NotFoundError struct {
	message string
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{message: msg}
}

func (err NotFoundError) Error() string { return err.message }

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

// ForbiddenError indicates that the actor is authenticated but not allowed
// to perform the operation. It is always returned before any mutation.
type ForbiddenError struct {
	message string
}

func NewForbiddenError(msg string) error {
	return &ForbiddenError{message: msg}
}

func (err ForbiddenError) Error() string { return err.message }

func IsForbidden(err error) bool {
	_, ok := errors.Cause(err).(*ForbiddenError)
	return ok
}

// ConflictError indicates that the current state already satisfies (or
// contradicts) the requested change, e.g. joining a class twice.
type ConflictError struct {
	message string
}

func NewConflictError(msg string) error {
	return &ConflictError{message: msg}
}

func (err ConflictError) Error() string { return err.message }

func IsConflict(err error) bool {
	_, ok := errors.Cause(err).(*ConflictError)
	return ok
}

// PartialFailureError reports a multi-step operation whose first step
// succeeded and could not be fully completed nor reversed. Callers must be
// able to tell it apart from full success and full failure.
type PartialFailureError struct {
	message string
	Cause   error
}

func NewPartialFailureError(msg string, cause error) error {
	return &PartialFailureError{message: msg, Cause: cause}
}

func (err PartialFailureError) Error() string {
	if err.Cause != nil {
		return err.message + ": " + err.Cause.Error()
	}
	return err.message
}

func IsPartialFailure(err error) bool {
	_, ok := errors.Cause(err).(*PartialFailureError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
