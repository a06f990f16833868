package util

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aryankumar/taskium/internal/executor"
)

// ErrInvalidConfig indicates a configuration or argument error
var ErrInvalidConfig = errors.New("invalid configuration")

// maxListedErrors caps how many errors a MultiError message spells out
const maxListedErrors = 10

// MultiError aggregates the failures of several tasks
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	switch len(m.Errors) {
	case 0:
		return "no errors"
	case 1:
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors occurred:", len(m.Errors))
	for i, err := range m.Errors {
		if i == maxListedErrors {
			fmt.Fprintf(&sb, "\n  ... and %d more errors", len(m.Errors)-maxListedErrors)
			break
		}
		fmt.Fprintf(&sb, "\n  %d. %v", i+1, err)
	}
	return sb.String()
}

// Unwrap exposes every aggregated error to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add appends err unless it is nil
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// CombineErrors joins the non-nil errors into a MultiError
// Returns nil if all errors are nil
func CombineErrors(errs ...error) error {
	m := &MultiError{}
	for _, err := range errs {
		m.Add(err)
	}
	return m.ErrorOrNil()
}

// ValidationError reports a rejected configuration value or argument
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("invalid %s %v: %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("invalid %s: %s", v.Field, v.Message)
}

// Unwrap lets validation failures match ErrInvalidConfig
func (v *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsTimeout reports whether err stems from an expired deadline
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsCancelled reports whether err stems from a cancelled context
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// FriendlyError converts an error into the message shown to CLI users
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case IsTimeout(err):
		return "Run timed out before every task finished. Increase --timeout or lower the point count."
	case IsCancelled(err):
		return "Run was interrupted."
	case errors.Is(err, executor.ErrPoolShutdown):
		return "The worker pool is shutting down and no longer accepts tasks."
	case errors.Is(err, executor.ErrTaskPanicked):
		return "A task panicked while running. Re-run with --verbose for details."
	default:
		return err.Error()
	}
}
