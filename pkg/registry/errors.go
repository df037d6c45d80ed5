package registry

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable failure category.
type Code string

// Failure categories for registry lookups. Transport codes cover everything
// that can go wrong before a body is successfully parsed; CodeDecode covers
// schema violations in an otherwise delivered body.
const (
	CodeBadURL    Code = "BAD_URL"       // request URL could not be constructed
	CodeTimeout   Code = "TIMEOUT"       // transport-level timeout
	CodeNetwork   Code = "NETWORK_ERROR" // connection failure, DNS, refused, etc.
	CodeBadStatus Code = "BAD_STATUS"    // non-2xx HTTP response
	CodeBadBody   Code = "BAD_BODY"      // body was delivered but unreadable
	CodeDecode    Code = "DECODE_ERROR"  // body was readable but violated the schema
)

// Error is a structured error with a code and optional cause.
// The distinct codes matter: FormatError's display text depends on them.
type Error struct {
	Code    Code   // Machine-readable failure category
	Message string // Human-readable message
	Status  int    // HTTP status code, set only for CodeBadStatus
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// BadURL reports that no request could be constructed from the given input.
func BadURL(msg string, cause error) *Error {
	return &Error{Code: CodeBadURL, Message: msg, Cause: cause}
}

// Timeout reports that the transport gave up waiting for a response.
func Timeout(cause error) *Error {
	return &Error{Code: CodeTimeout, Message: "request timed out", Cause: cause}
}

// Network reports a connection-level failure before any response arrived.
func Network(cause error) *Error {
	return &Error{Code: CodeNetwork, Message: "network failure", Cause: cause}
}

// BadStatus reports a response that arrived with a non-success status code.
func BadStatus(status int) *Error {
	return &Error{Code: CodeBadStatus, Message: fmt.Sprintf("unexpected status %d", status), Status: status}
}

// BadBody reports a response body that could not be read.
func BadBody(msg string, cause error) *Error {
	return &Error{Code: CodeBadBody, Message: msg, Cause: cause}
}

// DecodeFailed reports a body that parsed as JSON but violated the expected
// schema. The message should name the offending JSON path.
func DecodeFailed(msg string) *Error {
	return &Error{Code: CodeDecode, Message: msg}
}

// Is reports whether err carries the given failure code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// FormatError converts any lookup failure into a user-displayable string.
// It is pure and total: equal inputs yield equal outputs and the result is
// never empty, even for errors that did not originate in this package.
func FormatError(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		if msg := err.Error(); msg != "" {
			return msg
		}
		return "Something went wrong."
	}

	switch e.Code {
	case CodeBadURL, CodeBadBody, CodeDecode:
		return e.Message
	case CodeTimeout:
		return "Server is taking too long to respond. Please try again later."
	case CodeNetwork:
		return "Unable to reach server."
	case CodeBadStatus:
		return fmt.Sprintf("Request failed with status code: %d", e.Status)
	default:
		return e.Error()
	}
}
