package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategorySelector Category = "selector"
	CategoryURL      Category = "url"
	CategoryDatetime Category = "datetime"
	CategoryRequest  Category = "request"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// Error is a structured error with the offending input, a hint and an
// example.
type Error struct {
	// Kind is the registered kind (e.g., "selector.syntax"), if any.
	Kind string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Input is the text that failed, shown with a caret under Column.
	Input string

	// Column is the 1-based position in Input, 0 when unknown.
	Column int

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows a correct input.
	Example string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Wrapped != nil && e.Detail == "" && e.Wrapped.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithInput records the failing input and the 1-based column of the
// problem.
func (e *Error) WithInput(input string, column int) *Error {
	e.Input = input
	e.Column = column
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *Error) WithExample(ex string) *Error {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered kind.
func New(kind string) *Error {
	template, ok := registry[kind]
	if !ok {
		return &Error{
			Kind:    kind,
			Message: "Unknown error",
		}
	}
	return &Error{
		Kind:       kind,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
		Example:    template.Example,
	}
}

// Newf creates a new Error with a formatted message (no kind).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}
