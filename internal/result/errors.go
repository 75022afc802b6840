package result

import (
	"errors"
	"fmt"
)

// Code is a stable error code for each failure mode.
type Code string

const (
	// ParseError indicates the diagram input could not be read.
	ParseError Code = "PARSE_ERROR"
	// ValidationError indicates the diagram model is structurally invalid.
	ValidationError Code = "VALIDATION_ERROR"
	// GenerationError indicates an artifact could not be built or written.
	GenerationError Code = "GENERATION_ERROR"
	// PackagingError indicates the project archive could not be produced.
	PackagingError Code = "PACKAGING_ERROR"
	// ConfigError indicates invalid configuration or project descriptor.
	ConfigError Code = "CONFIG_ERROR"
	// InternalError indicates an unexpected failure.
	InternalError Code = "INTERNAL_ERROR"
)

// CodedError is an error with a stable code.
type CodedError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

// NewError creates a CodedError.
func NewError(code Code, message string, cause error) *CodedError {
	return &CodedError{Code: code, Message: message, cause: cause}
}

// Errorf creates a CodedError with a formatted message and no cause.
func Errorf(code Code, format string, args ...any) *CodedError {
	return &CodedError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *CodedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *CodedError) Unwrap() error {
	return e.cause
}

// Coder is implemented by errors that know their own code.
type Coder interface {
	ErrorCode() Code
}

// CodeOf returns the code carried by err, or InternalError.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code
	}
	var c Coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return InternalError
}
