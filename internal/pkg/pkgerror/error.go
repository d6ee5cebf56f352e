package pkgerror

import (
	"fmt"
	"net/http"
)

// Type classifies errors into high-level buckets.
type Type int

const (
	TypeServer     Type = iota // unexpected failures
	TypeBusiness               // the request conflicts with current state
	TypeValidation             // the request or its payload is unusable
)

func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier mapped to an HTTP status.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
	CodeUnsupportedMedia
	CodeTooLarge
)

func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "ERROR_CODE_INVALID_FORMAT"
	case CodeInvalidInput:
		return "ERROR_CODE_INVALID_INPUT"
	case CodeNotFound:
		return "ERROR_CODE_NOT_FOUND"
	case CodeConflict:
		return "ERROR_CODE_CONFLICT"
	case CodeUnsupportedMedia:
		return "ERROR_CODE_UNSUPPORTED_MEDIA"
	case CodeTooLarge:
		return "ERROR_CODE_TOO_LARGE"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error wraps an underlying error with a user-facing message, a type and a
// code.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	if e.msg != "" {
		return e.msg
	}
	switch e.errType {
	case TypeValidation:
		return "Validation violation"
	case TypeBusiness:
		return "Request conflicts with the current state"
	default:
		return "Internal error"
	}
}

// String is the verbose form used in logs.
func (e *Error) String() string {
	return fmt.Sprintf("Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType, e.code, e.msg, e.err)
}

func (e *Error) Msg() string   { return e.msg }
func (e *Error) Type() Type    { return e.errType }
func (e *Error) Code() Code    { return e.code }
func (e *Error) Unwrap() error { return e.err }

// StatusCode maps the error code to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.code {
	case CodeInvalidFormat:
		return http.StatusBadRequest
	case CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case CodeTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func newError(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

func message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return err.Error()
}

// NewServer hides err behind a generic message.
func NewServer(err error) error {
	return newError(err, "Internal server error", TypeServer, CodeInternal)
}

// NewBusiness reports a state conflict with the given message and code.
func NewBusiness(msg string, code Code) error {
	return newError(nil, msg, TypeBusiness, code)
}

// NewConflict reports err as a state conflict.
func NewConflict(err error) error {
	return newError(err, message(err, "conflict"), TypeBusiness, CodeConflict)
}

// NewNotFound reports a missing resource.
func NewNotFound(err error) error {
	return newError(err, message(err, "resource not found"), TypeBusiness, CodeNotFound)
}

// NewInvalidInput reports content that was received but cannot be processed.
func NewInvalidInput(err error) error {
	return newError(err, message(err, "validation error"), TypeValidation, CodeInvalidInput)
}

// NewInvalidFormat reports a malformed request.
func NewInvalidFormat(err error) error {
	return newError(err, message(err, "invalid request"), TypeValidation, CodeInvalidFormat)
}

// NewUnsupportedMedia reports a file type that has no reader.
func NewUnsupportedMedia(err error) error {
	return newError(err, message(err, "unsupported media type"), TypeValidation, CodeUnsupportedMedia)
}

// NewTooLarge reports a request body above the configured limit.
func NewTooLarge(err error) error {
	return newError(err, message(err, "request body too large"), TypeValidation, CodeTooLarge)
}
