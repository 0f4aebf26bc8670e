package pricing

import (
	"errors"
	"fmt"
)

// ValidationError signals malformed or rule-violating input, e.g. a bid
// that does not undercut the current lowest bid.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// AuthorizationError signals the wrong role or a non-owner attempting a
// privileged transition.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

func Authorizationf(format string, args ...interface{}) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError signals a duplicate pending bid or a state already
// transitioned by another request.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflictf(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStateError signals an operation attempted from the wrong
// lifecycle state.
type InsufficientStateError struct {
	Msg string
}

func (e *InsufficientStateError) Error() string { return e.Msg }

func InsufficientStatef(format string, args ...interface{}) error {
	return &InsufficientStateError{Msg: fmt.Sprintf(format, args...)}
}

// AmountMismatchError signals a payment or bid amount inconsistency.
type AmountMismatchError struct {
	Msg string
}

func (e *AmountMismatchError) Error() string { return e.Msg }

func AmountMismatchf(format string, args ...interface{}) error {
	return &AmountMismatchError{Msg: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps a rule error to the status code the API surfaces it with.
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		authz      *AuthorizationError
		conflict   *ConflictError
		state      *InsufficientStateError
		mismatch   *AmountMismatchError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &mismatch):
		return 400
	case errors.As(err, &authz):
		return 403
	case errors.As(err, &conflict), errors.As(err, &state):
		return 409
	}
	return 500
}
