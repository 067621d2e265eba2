// Package apperr classifies domain failures into the three kinds the
// commerce core can produce, so callers and the HTTP boundary can branch
// on the kind without parsing messages.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the failure classification.
type Kind int

const (
	// InvalidArgument: caller-supplied input violates a precondition
	// (empty id, non-positive or oversized quantity, blank address).
	InvalidArgument Kind = iota + 1

	// NotFound: a referenced entity id does not exist in its store.
	NotFound

	// InvalidState: the operation is disallowed given current entity state
	// (out of stock, illegal order-status transition).
	InvalidState
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid_argument"
	case NotFound:
		return "not_found"
	case InvalidState:
		return "invalid_state"
	default:
		return "unknown"
	}
}

// Error carries a kind alongside the message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Errorf builds a classified error.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or 0 if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsInvalidArgument(err error) bool { return KindOf(err) == InvalidArgument }
func IsNotFound(err error) bool        { return KindOf(err) == NotFound }
func IsInvalidState(err error) bool    { return KindOf(err) == InvalidState }
