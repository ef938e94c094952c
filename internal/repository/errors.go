// Package repository defines error types that are reused across the
// registry operations. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrNotFound indicates that a referenced id does not exist,
// while ErrCapacityExceeded signals that an event has no places left.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is matched by every *NotFoundError. Handlers should
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrValidation is matched by every *ValidationError. Handlers should
// translate this into an HTTP 400 response.
var ErrValidation = errors.New("validation failed")

// ErrCapacityExceeded is returned when registering for a full event.
// Handlers should translate this into an HTTP 400 response.
var ErrCapacityExceeded = errors.New("event is full")

// NotFoundError names the resource kind whose id was absent.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Message is the user-facing form, e.g. "Order not found".
func (e *NotFoundError) Message() string {
	s := e.Error()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ValidationError carries a user-facing description of a missing or
// malformed field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func notFound(resource string) error { return &NotFoundError{Resource: resource} }

func invalid(msg string) error { return &ValidationError{Message: msg} }
