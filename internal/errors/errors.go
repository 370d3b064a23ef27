// Package errors provides a lightweight structured error type (TrackerError)
// for category-based classification in the store, tracker and CLI layers.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a tracker error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Business-rule violations
	CategoryConstraint ErrorCategory = "constraint"
	CategoryInvalidOp  ErrorCategory = "invalid_operation"
	CategoryNotFound   ErrorCategory = "not_found"

	// Runtime and infrastructure errors
	CategoryStorage  ErrorCategory = "storage"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// TrackerError is a structured error with category, severity, and context
type TrackerError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for TrackerError
type ContextFields map[string]any

// Error implements the error interface
func (e *TrackerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *TrackerError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *TrackerError) WithContext(key string, value any) *TrackerError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new TrackerError
func New(category ErrorCategory, severity ErrorSeverity, message string) *TrackerError {
	return &TrackerError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new TrackerError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *TrackerError {
	return &TrackerError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if te, ok := err.(*TrackerError); ok {
		return te.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns
// CategoryInternal if not a TrackerError
func GetCategory(err error) ErrorCategory {
	if te, ok := err.(*TrackerError); ok {
		return te.Category
	}
	return CategoryInternal
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return IsCategory(err, CategoryNotFound) }

// IsConstraintViolation reports whether err is a constraint violation.
func IsConstraintViolation(err error) bool { return IsCategory(err, CategoryConstraint) }

// IsInvalidOperation reports whether err is an invalid state transition.
func IsInvalidOperation(err error) bool { return IsCategory(err, CategoryInvalidOp) }
