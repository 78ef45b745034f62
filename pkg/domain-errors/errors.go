// Package domainerrors defines the coded error taxonomy shared by services
// and transport adapters. Services attach a Code to every error they return;
// handlers translate codes to HTTP statuses in exactly one place.
//
// For infrastructure facts (record missing, duplicate key) stores return
// pkg/platform/sentinel errors instead; services translate those into coded
// errors at the domain boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the class of a domain error.
type Code string

const (
	// CodeValidation covers malformed or out-of-range input. Field-level
	// detail is carried alongside the message so callers can correct the
	// request.
	CodeValidation Code = "validation_error"

	// CodeBadRequest covers requests that cannot be parsed at all.
	CodeBadRequest Code = "bad_request"

	// CodeInvalidInput covers values rejected by domain parse constructors
	// (IDs, enums) at trust boundaries.
	CodeInvalidInput Code = "invalid_input"

	// CodeUnauthorized covers missing, expired or unverifiable credentials.
	CodeUnauthorized Code = "unauthorized"

	// CodeNotFound covers lookups for ids or tracking ids that do not exist.
	CodeNotFound Code = "not_found"

	// CodeForbidden covers role mismatches and non-owner access.
	CodeForbidden Code = "forbidden"

	// CodeConflict covers illegal or no-op lifecycle transitions, duplicate
	// feedback, re-publish attempts, and identity-generation exhaustion.
	CodeConflict Code = "conflict"

	// CodeUnavailable covers transient store failures that survived retries.
	CodeUnavailable Code = "unavailable"

	// CodeInvariantViolation marks a broken aggregate invariant. It never
	// leaves the service layer; services convert it to CodeValidation or
	// CodeConflict before returning.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeInternal covers everything else. The message is logged server-side
	// and never returned to the caller.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error with an optional wrapped cause and optional
// per-field validation detail.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches coded errors structurally so errors.Is works against a freshly
// constructed target. An empty target message matches any message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Message == "" || e.Message == t.Message)
}

// New builds a coded error with a caller-facing message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause. The cause is
// preserved for errors.Is/As chains and server-side logs.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// WithField returns a copy of the error carrying field-level detail.
// Intended for CodeValidation errors.
func (e *Error) WithField(field, detail string) *Error {
	clone := *e
	clone.Fields = make(map[string]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		clone.Fields[k] = v
	}
	clone.Fields[field] = detail
	return &clone
}

// Validation builds a CodeValidation error from per-field detail.
func Validation(fields map[string]string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: "request validation failed",
		Fields:  fields,
	}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for uncoded
// errors so unexpected failures never leak detail.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// FieldsOf extracts field-level validation detail, if any.
func FieldsOf(err error) map[string]string {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}

// ToHTTPStatus maps a code to the HTTP status handlers should write.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
