package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind classifies catalog errors for callers.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindInvalidInput ErrorKind = "invalid_input"
	KindUpstream     ErrorKind = "upstream"
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream failure")
)

// Error is a classified catalog error. Message is safe to show to clients;
// Details carries extra fields for the response body.
type Error struct {
	Kind    ErrorKind
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrUpstream:
		return e.Kind == KindUpstream
	}
	return false
}

func notFound(message string, details map[string]any) *Error {
	return &Error{Kind: KindNotFound, Message: message, Details: details}
}

func invalidInput(message string, details map[string]any) *Error {
	return &Error{Kind: KindInvalidInput, Message: message, Details: details}
}

func upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput reports whether err is a validation error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUpstream reports whether err comes from the document source.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// AsError extracts a catalog *Error from err.
func AsError(err error) (*Error, bool) {
	var catErr *Error
	if errors.As(err, &catErr) {
		return catErr, true
	}
	return nil, false
}
