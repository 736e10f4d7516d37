// Package errors provides the error type shared by the certboot packages.
//
// Every failure that certboot reports carries a Code so callers can tell a
// broken configuration file apart from a failed docker command without
// matching on message text.
//
// # Error Codes
//
//   - CONFIG: the JSON configuration could not be read or is incomplete
//   - VALIDATION: a configuration field failed an opt-in check
//   - TEMPLATE: an embedded template failed to parse or execute
//   - IO: a generated file could not be written or removed
//   - COMMAND: an external command (docker, certbot) failed
//
// # Usage
//
//	return errors.Wrap(errors.ErrCodeConfig, "failed to parse certbot.json", err)
//
//	if errors.Is(err, errors.ErrCommandFailed) {
//	    // the provisioning sequence logs these and moves on
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeConfig     ErrorCode = "CONFIG"     // Configuration file error
	ErrCodeValidation ErrorCode = "VALIDATION" // Field validation failed
	ErrCodeTemplate   ErrorCode = "TEMPLATE"   // Template rendering error
	ErrCodeIO         ErrorCode = "IO"         // File write/remove error
	ErrCodeCommand    ErrorCode = "COMMAND"    // External command error
)

// Error is a coded error with optional field and command context.
type Error struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Field   string    // Configuration field (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Err != nil {
		if msg == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors, one per code. Use with errors.Is.
var (
	ErrConfigInvalid    = &Error{Code: ErrCodeConfig, Message: "invalid configuration"}
	ErrValidationFailed = &Error{Code: ErrCodeValidation, Message: "validation failed"}
	ErrTemplateFailed   = &Error{Code: ErrCodeTemplate, Message: "template failed"}
	ErrIOFailed         = &Error{Code: ErrCodeIO, Message: "file operation failed"}
	ErrCommandFailed    = &Error{Code: ErrCodeCommand, Message: "command failed"}
)

// MissingKey creates a config error for a required key absent from the file.
func MissingKey(key string) error {
	return &Error{
		Code:    ErrCodeConfig,
		Message: "required key is missing",
		Field:   key,
	}
}

// Validation creates a validation error for a single field.
func Validation(field, msg string) error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: msg,
		Field:   field,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &Error{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// Command creates a COMMAND error that keeps the command's output.
func Command(name string, output []byte, err error) error {
	msg := fmt.Sprintf("%s failed", name)
	if len(output) > 0 {
		msg = fmt.Sprintf("%s failed: %s", name, string(output))
	}
	return &Error{
		Code:    ErrCodeCommand,
		Message: msg,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
