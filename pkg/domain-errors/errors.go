// Package domainerrors provides coded errors shared by every engine
// component. Services attach a Code so transport layers can translate
// failures without inspecting error strings, and so callers can branch on
// the deterministic failure taxonomy (insufficient data, excessive expected
// misstatement, ...) rather than on prose.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure. The string value is the wire-level
// error code rendered in HTTP envelopes.
type Code string

const (
	// Generic service codes.
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_failed"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"

	// Engine-specific codes. These are deterministic, non-retryable
	// failures: the engine never substitutes a guessed value.
	CodeInvalidInput               Code = "invalid_input"
	CodeInsufficientData           Code = "insufficient_financial_data"
	CodeExcessiveMisstatement      Code = "excessive_expected_misstatement"
	CodeUnsupportedRiskCombination Code = "unsupported_risk_combination"
	CodePopulationExhausted        Code = "population_exhausted"
)

// Error is a coded domain error. Message is safe to surface to callers
// except for CodeInternal, which transport layers must suppress.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error with a caller-facing message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message while keeping the chain
// intact for errors.Is/As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost coded error, or CodeInternal
// when the error carries no code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-facing message of the outermost coded error,
// or an empty string for uncoded errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
