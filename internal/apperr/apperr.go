package apperr

import (
	"errors"
	"fmt"
)

// Code classifies a pipeline failure for logging and HTTP mapping.
type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeValidation   Code = "validation"
	CodePrecondition Code = "precondition"
	CodeSchema       Code = "schema_validation"
	CodeUpstream     Code = "upstream"
	CodeIO           Code = "io"
	CodeInternal     Code = "internal"
)

// Error is a coded error carrying an optional underlying cause.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, msg string, err error) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

// CodeOf returns the code of the outermost coded error in err's chain,
// or CodeInternal when the chain carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err's chain carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
