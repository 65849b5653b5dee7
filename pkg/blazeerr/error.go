// Package blazeerr defines the typed error hierarchy shared by every BlazeDB
// component: the lexer/parser, catalog, scan, the expression evaluator, every
// physical operator, and the planner.
package blazeerr

import "fmt"

// Kind classifies an Error by the handling strategy it calls for.
type Kind string

const (
	// IoError is a file open/read/write failure.
	IoError Kind = "IoError"
	// ParseError is malformed SQL, or a WHERE conjunct the planner refuses to place.
	ParseError Kind = "ParseError"
	// Unsupported names an AST node kind the core does not implement.
	Unsupported Kind = "Unsupported"
	// SchemaMiss means a referenced column is absent from the current schema mapping.
	SchemaMiss Kind = "SchemaMiss"
	// TypeMismatch means a non-integer operand was given to arithmetic or an inequality.
	TypeMismatch Kind = "TypeMismatch"
	// InvariantViolation covers tuple-width mismatches and other internal contract breaks.
	InvariantViolation Kind = "InvariantViolation"
)

// Error is the single structured error type used across BlazeDB. It carries
// enough context to report where, in which operation and component, a
// failure occurred, while wrapping the underlying cause when there is one.
type Error struct {
	Kind      Kind
	Message   string
	Operation string
	Component string
	Cause     error
}

// New creates an Error of the given kind with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a Kind plus operation/component context. If err is
// already a *Error, its Operation/Component are filled in only if unset,
// matching the original error's kind rather than overriding it.
func Wrap(err error, kind Kind, operation, component string) *Error {
	if err == nil {
		return nil
	}

	if be, ok := err.(*Error); ok {
		if be.Operation == "" {
			be.Operation = operation
		}
		if be.Component == "" {
			be.Component = component
		}
		return be
	}

	return &Error{
		Kind:      kind,
		Message:   err.Error(),
		Operation: operation,
		Component: component,
		Cause:     err,
	}
}

// Error implements the error interface.
//
// Format: [Kind] Message (operation: Operation, component: Component) caused by: Cause
func (e *Error) Error() string {
	s := fmt.Sprintf("[%s] %s", e.Kind, e.Message)

	if e.Operation != "" {
		s += fmt.Sprintf(" (operation: %s", e.Operation)
		if e.Component != "" {
			s += fmt.Sprintf(", component: %s", e.Component)
		}
		s += ")"
	}

	if e.Cause != nil {
		s += fmt.Sprintf(" caused by: %v", e.Cause)
	}

	return s
}

// Unwrap returns the wrapped cause, enabling errors.Is/errors.As traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	be, ok := err.(*Error)
	return ok && be.Kind == kind
}
