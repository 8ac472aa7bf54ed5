package dispatch

import (
	"errors"
	"fmt"
)

// ContextError is implemented by errors whose message already names the
// context they failed in, e.g. "Stripe API error: 401 Invalid API Key".
type ContextError interface {
	error
	ErrorContext() string
}

// ValidationError reports arguments rejected before the handler ran.
type ValidationError struct {
	Tool string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation error: %v", e.Tool, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ErrorContext implements ContextError.
func (e *ValidationError) ErrorContext() string { return e.Tool + " validation" }

// Invalid builds a validation error from inside a handler, for checks that
// only make sense once arguments are decoded (e.g. a key prefix).
func Invalid(tool, format string, args ...any) error {
	return &ValidationError{Tool: tool, Err: fmt.Errorf(format, args...)}
}

// NotFoundError reports a missing local file or directory.
type NotFoundError struct {
	What string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Path)
}

// ErrorContext implements ContextError.
func (e *NotFoundError) ErrorContext() string { return e.What }

// ErrorText renders err as "<context> error: <message>". Errors carrying
// their own context keep it; others are attributed to the tool.
func ErrorText(tool string, err error) string {
	var ce ContextError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return fmt.Sprintf("%s error: %v", tool, err)
}
