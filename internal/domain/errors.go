package domain

import "fmt"

// Error types for consistent error handling across the report engine.

// ErrInvalidPeriod indicates an unrecognized period kind.
// Rejected before any fetch is attempted.
type ErrInvalidPeriod struct {
	Kind string
}

func (e *ErrInvalidPeriod) Error() string {
	return fmt.Sprintf("invalid period kind: %q", e.Kind)
}

// ErrInvalidDate indicates an unparseable or zero reference date.
// Rejected before any fetch is attempted.
type ErrInvalidDate struct {
	Value string
}

func (e *ErrInvalidDate) Error() string {
	if e.Value == "" {
		return "invalid date: empty or zero value"
	}
	return fmt.Sprintf("invalid date: %q", e.Value)
}

// ErrUpstreamFetch indicates the persistence collaborator errored.
// Fatal for single-period summaries and comparisons; rolling-total
// buckets degrade to zero instead.
type ErrUpstreamFetch struct {
	Op  string
	Err error
}

func (e *ErrUpstreamFetch) Error() string {
	return fmt.Sprintf("upstream fetch failed [%s]: %v", e.Op, e.Err)
}

func (e *ErrUpstreamFetch) Unwrap() error {
	return e.Err
}

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrUnauthorized indicates invalid credentials or token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}
