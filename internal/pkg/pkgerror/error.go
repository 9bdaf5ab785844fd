package pkgerror

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates that a resource with the same key already exists.
	ErrConflict = errors.New("resource already exists")
)

// Type classifies errors into high-level buckets used by the application.
type Type int

const (
	TypeServer     Type = iota // Server-side errors (e.g., database or network issues).
	TypeBusiness               // Business logic errors (e.g., domain rule violations).
	TypeValidation             // Validation errors (e.g., input validation failures).
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

// Code is a stable identifier used for mapping errors to HTTP status codes.
type Code int

const (
	CodeInternal      Code = iota // Internal or unspecified error.
	CodeInvalidFormat             // Request body could not be decoded.
	CodeInvalidInput              // Request decoded but failed validation.
	CodeNotFound                  // Batch or other resource does not exist.
	CodeConflict                  // Resource with the same key already exists.
	CodeTooLarge                  // Upload above the accepted size.
)

//nolint:gochecknoglobals // read-only lookup
var codeTable = map[Code]struct {
	name   string
	status int
}{
	CodeInternal:      {"ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat: {"ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:  {"ERROR_CODE_INVALID_INPUT", http.StatusUnprocessableEntity},
	CodeNotFound:      {"ERROR_CODE_NOT_FOUND", http.StatusNotFound},
	CodeConflict:      {"ERROR_CODE_CONFLICT", http.StatusConflict},
	CodeTooLarge:      {"ERROR_CODE_TOO_LARGE", http.StatusRequestEntityTooLarge},
}

func (c Code) String() string {
	if info, ok := codeTable[c]; ok {
		return info.name
	}
	return codeTable[CodeInternal].name
}

// Status maps the code to an HTTP status, 500 for unknown codes.
func (c Code) Status() int {
	if info, ok := codeTable[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Error carries a client-facing message and a Code next to an optional
// cause. Only the message and fields reach the HTTP response.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

//nolint:gochecknoglobals // read-only lookup
var fallbackText = map[Type]string{
	TypeValidation: "validation failed",
	TypeBusiness:   "business rule violated",
	TypeServer:     "internal error",
}

// Error returns the wrapped error's text, else the message, else a text
// derived from the type.
func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	}
	if text, ok := fallbackText[e.errType]; ok {
		return text
	}
	return "unknown error"
}

// String is the verbose form used when an *Error is printed with %s.
func (e *Error) String() string {
	return fmt.Sprintf("pkgerror: type=%s code=%s msg=%q cause=%v", e.errType, e.code, e.msg, e.err)
}

// LogValue groups the error's parts when it is passed to slog.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", e.errType.String()),
		slog.String("code", e.code.String()),
		slog.String("msg", e.msg),
	}
	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}
	if len(e.fields) > 0 {
		attrs = append(attrs, slog.Any("fields", e.fields))
	}
	return slog.GroupValue(attrs...)
}

// Msg returns the user-facing error message, if set.
func (e *Error) Msg() string {
	return e.msg
}

// Fields returns per-field validation messages, keyed by field name.
func (e *Error) Fields() map[string]string {
	return e.fields
}

// Type returns the high-level error type.
func (e *Error) Type() Type {
	return e.errType
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int {
	return e.code.Status()
}

func new(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer creates a server-type error with the provided error.
func NewServer(err error) error {
	return new(err, "Internal server error", TypeServer, CodeInternal)
}

// NewBusiness creates a business-type error with the specified message and code.
func NewBusiness(msg string, code Code) error {
	return new(nil, msg, TypeBusiness, code)
}

// NewInvalidInput creates a validation error for invalid input with a message and underlying error.
func NewInvalidInput(err error) error {
	return new(err, "validation error", TypeValidation, CodeInvalidInput)
}

// NewInvalidFormat creates a validation error for an invalid request body format.
func NewInvalidFormat() error {
	return new(nil, "invalid request body", TypeValidation, CodeInvalidFormat)
}

// NewTooLarge creates a validation error for a payload above limit bytes.
func NewTooLarge(limit int64) error {
	return new(nil, fmt.Sprintf("payload exceeds %d bytes", limit), TypeValidation, CodeTooLarge)
}

// NewNotFound creates a business error for a missing resource, wrapping ErrNotFound.
func NewNotFound(msg string) error {
	return new(ErrNotFound, msg, TypeBusiness, CodeNotFound)
}

// NewInvalidFields creates a validation error carrying one message per invalid field.
func NewInvalidFields(fields map[string]string) error {
	return &Error{msg: "validation error", errType: TypeValidation, code: CodeInvalidInput, fields: fields}
}
