package errors

import "fmt"

// Kind classifies an application error.
type Kind int

const (
	ErrInternal Kind = iota
	ErrNotFound
	ErrRejected
	ErrValidation
	ErrUnavailable
)

// Error is an application-level error with a kind for classification.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Constructor functions for common error types

func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Rejected marks an action the protocol refused: an unknown action name
// or a guarded precondition that failed. Surfaced as a no-op, never a crash.
func Rejected(msg string) *Error {
	return &Error{Kind: ErrRejected, Message: msg}
}

func Rejectedf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrRejected, Message: fmt.Sprintf(format, args...)}
}

func Validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Unavailable marks a failure of the backing document store.
func Unavailable(msg string, err error) *Error {
	return &Error{Kind: ErrUnavailable, Message: msg, Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: "internal error", Err: err}
}

func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context.
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of an application error, or ErrInternal for
// anything else.
func KindOf(err error) Kind {
	if appErr, ok := err.(*Error); ok {
		return appErr.Kind
	}
	return ErrInternal
}
