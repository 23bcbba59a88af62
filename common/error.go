package common

import (
	"fmt"
)

// Error is the coded error used across packages; errors are compared by
// code, not by message, so refined messages stay comparable to their
// origin.
type Error struct {
	code    string
	message string
	err     error
}

func NewError(name string, code uint, message string) Error {
	return Error{code: fmt.Sprintf("%s-%d", name, code), message: message}
}

func (e Error) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s: %s", e.code, e.message)
	}

	return fmt.Sprintf("%s: %s; %v", e.code, e.message, e.err)
}

func (e Error) Code() string {
	return e.code
}

func (e Error) Message() string {
	return e.message
}

func (e Error) SetMessage(format string, args ...interface{}) Error {
	return Error{code: e.code, message: fmt.Sprintf(format, args...), err: e.err}
}

func (e Error) AppendMessage(format string, args ...interface{}) Error {
	return Error{
		code:    e.code,
		message: fmt.Sprintf("%s; %s", e.message, fmt.Sprintf(format, args...)),
		err:     e.err,
	}
}

// SetError attaches the underlying cause; the cause is kept for Unwrap
// and rendered after the coded message.
func (e Error) SetError(err error) Error {
	return Error{code: e.code, message: e.message, err: err}
}

func (e Error) Unwrap() error {
	return e.err
}

func (e Error) Equal(err error) bool {
	var ne Error
	switch t := err.(type) {
	case Error:
		ne = t
	case *Error:
		ne = *t
	default:
		return false
	}

	return e.code == ne.code
}
