// Package common defines the error kinds shared by the service and HTTP layers.
// Callers should use errors.Is against the Err* kinds; the message carried by
// *Error is meant for humans and is passed through to API responses.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict signals a uniqueness violation, e.g. a taken username.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized signals unknown credentials or a wrong password.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound signals that the addressed record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument signals a malformed input value.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error pairs an error kind with a human-readable message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

func Unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func InvalidArgument(format string, args ...any) error {
	return newError(ErrInvalidArgument, format, args...)
}

// Message returns the human-readable part of err. For errors that are not an
// *Error it falls back to err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
