// Package errors provides standardized error handling patterns for collie's
// compilation pipeline. It includes error classification, standard error
// variables, and helper functions for consistent error wrapping across the
// ontology registry, expansion engine, validator, and emitters.
package errors

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorSpec represents a malformed or inconsistent ontology specification.
	// Fatal at load time; no partial registry is ever returned.
	ErrorSpec ErrorClass = iota
	// ErrorLookup represents a failed lookup against a loaded registry.
	// Fatal to the entity or triple being processed; the batch may continue.
	ErrorLookup
	// ErrorValidation represents a validation fault raised under raise severity.
	ErrorValidation
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorSpec:
		return "spec"
	case ErrorLookup:
		return "lookup"
	case ErrorValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Ontology specification errors
	ErrDuplicateClassCode    = errors.New("duplicate class code")
	ErrDuplicateRelationCode = errors.New("duplicate relation code")
	ErrUndeclaredClass       = errors.New("reference to undeclared class")
	ErrCyclicHierarchy       = errors.New("cyclic parent chain")
	ErrAsymmetricInverse     = errors.New("inverse relation is not reciprocal")
	ErrBadQuantifier         = errors.New("malformed cardinality quantifier")

	// Registry lookup errors
	ErrUnknownClass    = errors.New("unknown class code")
	ErrUnknownRelation = errors.New("unknown relation code")
	ErrUnknownShortcut = errors.New("unknown shortcut field")

	// Input errors
	ErrMissingID        = errors.New("entity has no identifier key")
	ErrMissingClassCode = errors.New("entity has no class code")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrConstraintViolated aborts a compilation pass under raise severity.
	ErrConstraintViolated = errors.New("ontology constraint violated")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsSpec checks if an error stems from a malformed ontology specification
func IsSpec(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorSpec
	}

	return errors.Is(err, ErrDuplicateClassCode) ||
		errors.Is(err, ErrDuplicateRelationCode) ||
		errors.Is(err, ErrUndeclaredClass) ||
		errors.Is(err, ErrCyclicHierarchy) ||
		errors.Is(err, ErrAsymmetricInverse) ||
		errors.Is(err, ErrBadQuantifier)
}

// IsLookup checks if an error is a registry lookup failure
func IsLookup(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorLookup
	}

	return errors.Is(err, ErrUnknownClass) ||
		errors.Is(err, ErrUnknownRelation) ||
		errors.Is(err, ErrUnknownShortcut)
}

// IsValidation checks if an error is a validation fault
func IsValidation(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorValidation
	}

	return errors.Is(err, ErrConstraintViolated)
}

// Classify returns the error class for an error
func Classify(err error) ErrorClass {
	if IsSpec(err) {
		return ErrorSpec
	}
	if IsValidation(err) {
		return ErrorValidation
	}

	// Lookup is the default for unclassified errors: it is the only class
	// that lets the rest of the batch continue.
	return ErrorLookup
}

// newClassified creates a new classified error.
// This is an internal helper - use WrapSpec(), WrapLookup(), or WrapValidation() instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapSpec wraps an error as a specification error with context
func WrapSpec(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorSpec, wrappedErr, component, method, wrappedErr.Error())
}

// WrapLookup wraps an error as a lookup failure with context
func WrapLookup(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorLookup, wrappedErr, component, method, wrappedErr.Error())
}

// WrapValidation wraps an error as a validation fault with context
func WrapValidation(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorValidation, wrappedErr, component, method, wrappedErr.Error())
}
