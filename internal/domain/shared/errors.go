// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation = errors.New("validation error")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Infrastructure errors
	ErrRepository = errors.New("repository failure")
)

// ══════════════════════════════════════════════════════════════════════════════
// VALIDATION ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// ValidationCode classifies the rule a value violated.
type ValidationCode string

const (
	CodeEmptyField             ValidationCode = "EMPTY_FIELD"
	CodeFieldTooLong           ValidationCode = "FIELD_TOO_LONG"
	CodeFieldTooShort          ValidationCode = "FIELD_TOO_SHORT"
	CodeNegativeValue          ValidationCode = "NEGATIVE_VALUE"
	CodeInvalidRange           ValidationCode = "INVALID_RANGE"
	CodeInvalidFormat          ValidationCode = "INVALID_FORMAT"
	CodeInvalidValue           ValidationCode = "INVALID_VALUE"
	CodeInvalidStateTransition ValidationCode = "INVALID_STATE_TRANSITION"
	CodeEventFull              ValidationCode = "EVENT_FULL"
)

// ValidationError is returned by value object and entity constructors.
// Field names the offending field, Message is human readable.
type ValidationError struct {
	Field   string
	Code    ValidationCode
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches ErrValidation, plus ErrStateTransition for transition failures.
func (e *ValidationError) Is(target error) bool {
	if target == ErrValidation {
		return true
	}
	if target == ErrStateTransition {
		return e.Code == CodeInvalidStateTransition || e.Code == CodeEventFull
	}
	return false
}

// NewValidationError creates a ValidationError.
func NewValidationError(field string, code ValidationCode, message string) *ValidationError {
	return &ValidationError{Field: field, Code: code, Message: message}
}

// EmptyField reports a missing or whitespace-only value.
func EmptyField(field string) *ValidationError {
	return NewValidationError(field, CodeEmptyField, field+" cannot be empty")
}

// TooLong reports a value exceeding max characters.
func TooLong(field string, max int) *ValidationError {
	return NewValidationError(field, CodeFieldTooLong, fmt.Sprintf("%s cannot exceed %d characters", field, max))
}

// TooShort reports a value shorter than min characters.
func TooShort(field string, min int) *ValidationError {
	return NewValidationError(field, CodeFieldTooShort, fmt.Sprintf("%s must be at least %d characters", field, min))
}

// Negative reports a numeric value below zero.
func Negative(field string) *ValidationError {
	return NewValidationError(field, CodeNegativeValue, field+" cannot be negative")
}

// OutOfRange reports a numeric or temporal value outside its bounds.
func OutOfRange(field, rule string) *ValidationError {
	return NewValidationError(field, CodeInvalidRange, field+" "+rule)
}

// BadFormat reports a value that does not match its expected format.
func BadFormat(field, rule string) *ValidationError {
	return NewValidationError(field, CodeInvalidFormat, field+" "+rule)
}

// UnknownValue reports a value outside a closed enumeration.
func UnknownValue(field, value string) *ValidationError {
	return NewValidationError(field, CodeInvalidValue, fmt.Sprintf("invalid %s: %q", field, value))
}

// InvalidTransition reports an operation not allowed in the current state.
func InvalidTransition(field, message string) *ValidationError {
	return NewValidationError(field, CodeInvalidStateTransition, message)
}

// ValidationCodeOf returns the code of a ValidationError in err's chain, or "".
func ValidationCodeOf(err error) ValidationCode {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

// ValidationFieldOf returns the field of a ValidationError in err's chain, or "".
func ValidationFieldOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "project", "event", "news"
	Op      string // Operation that failed, e.g., "FindByID", "Save"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// NotFound builds a not-found error for the given domain and id.
func NotFound(domain, op, id string) *DomainError {
	return NewDomainError(domain, op, ErrNotFound, fmt.Sprintf("%s %s not found", domain, id))
}

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
