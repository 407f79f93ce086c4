package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig  = "CONFIG"
	ErrUsage   = "USAGE"
	ErrCollect = "COLLECT"
)

// Error is a setup error that aborts the run. It renders as:
//
//	✗ <What failed>
//
//	  <Why it failed>
//
//	  <How to fix it>
//
// Per-section collection failures are plain wrapped errors and never use
// this type; they are reported inline and the program carries on.
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// NewUnknownSection reports a section letter that no collector answers to.
func NewUnknownSection(letter string, valid string) *Error {
	return &Error{
		Code:       ErrUsage,
		Message:    fmt.Sprintf("Unknown section '%s'", letter),
		Suggestion: fmt.Sprintf("Valid sections are: %s", valid),
	}
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Summary renders err on a single line. Structured errors collapse to
// "message: cause"; anything else uses its own Error text.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	var motdErr *Error
	if errors.As(err, &motdErr) {
		if motdErr.Cause != nil {
			return motdErr.Message + ": " + motdErr.Cause.Error()
		}
		return motdErr.Message
	}
	return err.Error()
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var motdErr *Error
	if errors.As(err, &motdErr) {
		return motdErr.Code == code
	}
	return false
}
