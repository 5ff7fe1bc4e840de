// Package util provides logging helpers and the common error types shared by
// the planner, exporters and stores.
package util

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sentinel errors
var (
	ErrInfeasible       = errors.New("topology not feasible")
	ErrNotFound         = errors.New("resource not found")
	ErrAlreadyExists    = errors.New("resource already exists")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrValidationFailed = errors.New("validation failed")
	ErrNotConnected     = errors.New("not connected")
)

// Bound names a port budget checked by the constraint validator.
type Bound string

const (
	BoundLeafPorts  Bound = "leaf-ports"
	BoundSpinePorts Bound = "spine-ports"
)

// FeasibilityError reports a tier whose port demand exceeds the switch radix.
// It is never retried; the caller must supply different parameters.
type FeasibilityError struct {
	Bound  Bound
	Demand int
	Budget int
}

func (e *FeasibilityError) Error() string {
	tier := "spine"
	if e.Bound == BoundLeafPorts {
		tier = "leaf"
	}
	if e.Demand == math.MaxInt {
		return fmt.Sprintf("%s switches need more ports than can be counted; radix is %d", tier, e.Budget)
	}
	return fmt.Sprintf("%s switches need %d ports but radix is %d", tier, e.Demand, e.Budget)
}

func (e *FeasibilityError) Unwrap() error {
	return ErrInfeasible
}

// NewFeasibilityError creates a feasibility error for the given bound
func NewFeasibilityError(bound Bound, demand, budget int) *FeasibilityError {
	return &FeasibilityError{Bound: bound, Demand: demand, Budget: budget}
}

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddError adds an error message unconditionally
func (v *ValidationBuilder) AddError(message string) *ValidationBuilder {
	v.errors = append(v.errors, message)
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}

// NotFoundError reports a missing named resource (stored plan, published topology)
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}
