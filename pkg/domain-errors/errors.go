// Package domainerrors defines the error taxonomy shared by every tier of the
// app. Services return coded errors; the HTTP layer translates codes to
// statuses and never leaks internal detail for CodeInternal.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for propagation policy decisions.
type Code string

const (
	// CodeAuthFailure covers bad credentials and identity-provider outages.
	// The two are deliberately indistinguishable to callers.
	CodeAuthFailure Code = "auth_failure"
	// CodeSessionInvalid marks an expired, unverifiable or absent session.
	// Always treated as "logged out", never as a hard error.
	CodeSessionInvalid Code = "session_invalid"
	// CodeUpstream marks a backend non-2xx or transport error.
	CodeUpstream Code = "upstream_failure"
	// CodeValidation marks input rejected before any network call.
	CodeValidation Code = "validation_failure"
	// CodeNotFound marks a missing upstream resource.
	CodeNotFound Code = "not_found"
	// CodeInternal is the fallback for unexpected failures.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error with an operator-facing message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// CodeOf extracts the code from err, falling back to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the message from err. Internal errors yield a generic
// message so transport never exposes their detail.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Code != CodeInternal {
		return de.Message
	}
	return "internal error"
}

// ToHTTPStatus maps an error code onto the status used by the local surface.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeAuthFailure, CodeSessionInvalid:
		return http.StatusUnauthorized
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUpstream:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
