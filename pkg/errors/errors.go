// Package errors provides structured error types for treeline.
//
// Every failure the layout engine can report carries a machine-readable
// [Code], a human-readable message naming the offending document (and the
// referenced layout, gap or fragment where applicable), and an optional
// underlying cause.
//
// # Error Codes
//
// Codes fall into three groups:
//   - Directive parsing: NOT_A_COMMENT, NOT_TREELINE_COMMENT, INVALID_SCENARIO.
//     These are usually resolved locally as "no directive present".
//   - Layout resolution and merging: NO_PARENT_LAYOUT, ROOT_DIRECTIVE_IS_NOT_LAYOUT,
//     LAYOUT_DOES_NOT_EXIST, DUPLICATE_LAYOUT, LAYOUT_CYCLE,
//     MISSING_CONTENT_FRAGMENT, NOT_RENDERED.
//   - Environment: INVALID_INPUT, INVALID_PATH, FILE_NOT_FOUND, IO_ERROR, INTERNAL_ERROR.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLayoutDoesNotExist,
//	    "the root treeline directive for '%s' specifies an invalid layout '%s'", page, layout)
//	if errors.Is(err, errors.ErrCodeLayoutDoesNotExist) {
//	    // Handle missing layout
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Directive parsing errors
	ErrCodeNotAComment        Code = "NOT_A_COMMENT"
	ErrCodeNotTreelineComment Code = "NOT_TREELINE_COMMENT"
	ErrCodeInvalidScenario    Code = "INVALID_SCENARIO"

	// Layout resolution errors
	ErrCodeNoParentLayout           Code = "NO_PARENT_LAYOUT"
	ErrCodeRootDirectiveIsNotLayout Code = "ROOT_DIRECTIVE_IS_NOT_LAYOUT"
	ErrCodeLayoutDoesNotExist       Code = "LAYOUT_DOES_NOT_EXIST"
	ErrCodeDuplicateLayout          Code = "DUPLICATE_LAYOUT"
	ErrCodeLayoutCycle              Code = "LAYOUT_CYCLE"

	// Merge errors
	ErrCodeMissingContentFragment Code = "MISSING_CONTENT_FRAGMENT"
	ErrCodeNotRendered            Code = "NOT_RENDERED"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Environment errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeIO           Code = "IO_ERROR"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
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

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
// Only the first *Error found in the chain is compared.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
