package apperror

import (
	"errors"
	"fmt"
)

// Error is a code-classified error. Op names the operation that failed
// (e.g. "flashloan.Request") so wrapped errors read as a call chain.
type Error struct {
	Code Code
	Op   string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	default:
		return string(e.Code)
	}
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code, so errors.Is works across wrapping layers.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates an error with a code and the failing operation.
func New(code Code, op string) *Error {
	return &Error{Code: code, Op: op}
}

// Wrap annotates an underlying error with a code and operation.
func Wrap(code Code, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// CodeOf extracts the code from an error chain, or "" if none is present.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether any error in the chain carries the given code.
func IsCode(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}
