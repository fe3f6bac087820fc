package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the subsystem an error belongs to.
type Category string

const (
	CategoryConfig Category = "config"
	CategoryCLI    Category = "cli"
	CategoryBridge Category = "bridge"
	CategoryLinks  Category = "links"
)

// HashnavError is a structured error with an optional offending field and a
// suggestion for fixing it.
type HashnavError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the subsystem that raised the error.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation.
	Detail string

	// Field names the config key, flag, or argument at fault.
	Field string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *HashnavError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *HashnavError) Unwrap() error {
	return e.Wrapped
}

// WithField records the offending field.
func (e *HashnavError) WithField(field string) *HashnavError {
	e.Field = field
	return e
}

// WithSuggestion adds a fix suggestion.
func (e *HashnavError) WithSuggestion(s string) *HashnavError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation.
func (e *HashnavError) WithDetail(d string) *HashnavError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *HashnavError) Wrap(err error) *HashnavError {
	e.Wrapped = err
	return e
}

// New creates a HashnavError from a registered code. Unknown codes produce
// an "Unknown error" value rather than panicking.
func New(code string) *HashnavError {
	template, ok := registry[code]
	if !ok {
		return &HashnavError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &HashnavError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates an uncoded error with a formatted message.
func Newf(category Category, format string, args ...any) *HashnavError {
	return &HashnavError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err in the error registered under code. An err that
// already is (or wraps) a HashnavError is returned as that error.
func FromError(err error, code string) *HashnavError {
	if err == nil {
		return nil
	}
	var he *HashnavError
	if stderrors.As(err, &he) {
		return he
	}
	return New(code).Wrap(err)
}

// Is reports whether any error in err's chain is a HashnavError with code.
func Is(err error, code string) bool {
	var he *HashnavError
	for err != nil {
		if !stderrors.As(err, &he) {
			return false
		}
		if he.Code == code {
			return true
		}
		err = he.Wrapped
	}
	return false
}
