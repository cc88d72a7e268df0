package models

import (
	"errors"
	"fmt"
)

// ErrOrderNotFound is returned when an order id does not exist in the store.
var ErrOrderNotFound = errors.New("order not found")

// ErrInvalidTransition is the sentinel wrapped by TransitionError; callers
// match it with errors.Is.
var ErrInvalidTransition = errors.New("invalid status transition")

// ValidationError reports malformed or missing required input. It is raised
// before any state change and surfaced to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// TransitionError reports a status-update request that does not match the
// allowed next state. The order is left unchanged.
type TransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// PersistenceError reports a failed read or write against the backing store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
