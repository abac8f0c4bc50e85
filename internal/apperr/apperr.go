package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an operation failure for boundary mapping.
type Code int

const (
	CodeInvalidArgument Code = iota + 1
	CodeUnauthenticated
	CodeNotFound
	CodeAlreadyExists
	CodeInternal
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

func Unauthenticated(message string) *Error { return New(CodeUnauthenticated, message) }

func NotFound(message string) *Error { return New(CodeNotFound, message) }

func AlreadyExists(message string) *Error { return New(CodeAlreadyExists, message) }

// Internal wraps a store or adapter failure. The cause is preserved for
// logging; the message is what the client sees.
func Internal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

// CodeOf extracts the code from err; anything untyped counts as internal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

// HTTPStatus maps a code to its response status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
