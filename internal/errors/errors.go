package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError carrying the same code, so sentinels such as
// ErrDepthExceeded can be tested with errors.Is through wrapping.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the code of the first AppError in err's chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeParseFailure      = "PARSE_FAILURE"
	CodeDepthExceeded     = "DEPTH_EXCEEDED"
	CodeUnsupportedSource = "UNSUPPORTED_SOURCE"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Sentinels for errors.Is
var (
	ErrDepthExceeded = New(CodeDepthExceeded, "maximum nesting depth exceeded")
	ErrParseFailure  = New(CodeParseFailure, "document could not be parsed")
)

// DepthExceeded reports a document nested deeper than the configured limit
func DepthExceeded(path string, limit int) *AppError {
	if path == "" {
		path = "root"
	}
	return New(CodeDepthExceeded, fmt.Sprintf("nesting deeper than %d levels at %s", limit, path))
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func ParseFailure(source string, cause error) *AppError {
	return &AppError{
		Code:    CodeParseFailure,
		Message: fmt.Sprintf("failed to parse %s", source),
		Cause:   cause,
	}
}

func UnsupportedSource(message string) *AppError {
	return New(CodeUnsupportedSource, message)
}
